package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	uploadsDir    = "uploads"
	thumbnailsDir = "thumbnails"
)

// Storage keeps uploaded media under <root>/uploads and derived thumbnails
// under <root>/thumbnails. All returned paths are relative to the root.
type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	// Use filepath.Clean to prevent path traversal issues like "media/../"
	p := filepath.Clean(rootPath)

	for _, sub := range []string{uploadsDir, thumbnailsDir} {
		if err := os.MkdirAll(filepath.Join(p, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", sub, err)
		}
	}

	return &Storage{rootPath: p}, nil
}

// SaveUpload writes an uploaded media file under the uploads area.
// The filename must already be safe to use (the post service generates it).
func (s *Storage) SaveUpload(fileData io.Reader, filename string) (string, error) {
	return s.save(fileData, uploadsDir, filename)
}

// SaveThumbnail writes a derived thumbnail under the thumbnails area,
// overwriting any previous file with the same name.
func (s *Storage) SaveThumbnail(fileData io.Reader, filename string) (string, error) {
	return s.save(fileData, thumbnailsDir, filename)
}

func (s *Storage) save(fileData io.Reader, area, filename string) (string, error) {
	// Strip any directory components to keep writes inside the area.
	relativePath := filepath.Join(area, filepath.Base(filepath.Clean(filename)))
	fullPath := filepath.Join(s.rootPath, relativePath)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, fileData); err != nil {
		os.Remove(fullPath) // Best effort, ignore error here.
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return relativePath, nil
}

// Open reads a stored file by its relative path.
func (s *Storage) Open(relPath string) (io.ReadCloser, error) {
	file, err := os.Open(s.AbsolutePath(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("media file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// AbsolutePath resolves a stored relative path to its on-disk location.
// The relative path is cleaned and confined to the storage root.
func (s *Storage) AbsolutePath(relPath string) string {
	cleaned := filepath.Clean("/" + relPath) // leading slash neutralizes ".." prefixes
	return filepath.Join(s.rootPath, cleaned)
}

// DeleteFile removes a single stored file. A missing file is not an error.
func (s *Storage) DeleteFile(relPath string) error {
	err := os.Remove(s.AbsolutePath(relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
