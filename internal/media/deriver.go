// Package media implements best-effort thumbnail derivation for uploaded
// posts. Derivation failures never block or fail the upload that triggered
// them; they are logged and counted instead.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/redvibe-dev/redvibe/internal/domain"
)

// Storage is the slice of the media store the deriver needs.
type Storage interface {
	// Open reads a stored media file by its relative path.
	Open(relPath string) (io.ReadCloser, error)
	// AbsolutePath resolves a relative media path for external tools (ffmpeg).
	AbsolutePath(relPath string) string
	// SaveThumbnail writes encoded thumbnail bytes under the thumbnails area
	// and returns the stored relative path. Overwrites any previous content.
	SaveThumbnail(data io.Reader, filename string) (string, error)
}

type Deriver struct {
	storage Storage
	maxDim  int
	quality int
}

func NewDeriver(storage Storage, maxDim, jpegQuality int) *Deriver {
	return &Deriver{storage: storage, maxDim: maxDim, quality: jpegQuality}
}

// ThumbnailName derives the deterministic thumbnail filename for a media
// path: "uploads/beach.png" -> "beach_thumb.jpg". Deterministic naming makes
// re-derivation an overwrite rather than an accumulation.
func ThumbnailName(mediaPath string) string {
	base := filepath.Base(mediaPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_thumb.jpg"
}

// Derive produces a bounded-dimension JPEG preview for a stored media file
// and returns its relative path. The returned error is a structured failure
// reason for observability; callers must not propagate it to the user.
func (d *Deriver) Derive(ctx context.Context, mediaPath string, mediaType domain.MediaType) (string, error) {
	var (
		src image.Image
		err error
	)
	switch mediaType {
	case domain.MediaImage:
		src, err = d.decodeImage(mediaPath)
	case domain.MediaVideo:
		src, err = d.grabVideoFrame(ctx, mediaPath)
	default:
		err = fmt.Errorf("unknown media type %q", mediaType)
	}
	if err != nil {
		derivationsTotal.WithLabelValues(string(mediaType), outcomeFailed).Inc()
		return "", err
	}

	encoded, err := d.resizeEncode(src)
	if err != nil {
		derivationsTotal.WithLabelValues(string(mediaType), outcomeFailed).Inc()
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbPath, err := d.storage.SaveThumbnail(bytes.NewReader(encoded), ThumbnailName(mediaPath))
	if err != nil {
		derivationsTotal.WithLabelValues(string(mediaType), outcomeFailed).Inc()
		return "", fmt.Errorf("failed to store thumbnail: %w", err)
	}

	derivationsTotal.WithLabelValues(string(mediaType), outcomeOk).Inc()
	return thumbPath, nil
}

func (d *Deriver) decodeImage(mediaPath string) (image.Image, error) {
	f, err := d.storage.Open(mediaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// grabVideoFrame extracts a single frame at min(0.5s, duration/2) as JPEG via
// ffmpeg and decodes it, so videos share the image resize/encode pipeline.
func (d *Deriver) grabVideoFrame(ctx context.Context, mediaPath string) (image.Image, error) {
	if err := CheckFFmpegAvailable(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not runnable", ErrProbeUnavailable)
	}

	absPath := d.storage.AbsolutePath(mediaPath)

	seek := 0.5
	if duration, err := NewProber().Duration(ctx, absPath); err == nil && duration/2 < seek {
		seek = duration / 2
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-protocol_whitelist", "file,pipe", // local file access only
		"-ss", fmt.Sprintf("%.3f", seek),
		"-i", absPath,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame grab failed: %w (stderr: %s)", err, stderr.String())
	}

	img, err := jpeg.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode grabbed frame: %w", err)
	}
	return img, nil
}

// resizeEncode shrinks src so neither dimension exceeds maxDim (aspect ratio
// preserved, never upscales) and encodes it as 24-bit JPEG.
func (d *Deriver) resizeEncode(src image.Image) ([]byte, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > d.maxDim || h > d.maxDim {
		scale := float64(d.maxDim) / float64(w)
		if h > w {
			scale = float64(d.maxDim) / float64(h)
		}
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: d.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
