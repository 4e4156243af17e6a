package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	root := t.TempDir()
	_, err := New(root)
	require.NoError(t, err)

	for _, sub := range []string{"uploads", "thumbnails"} {
		info, err := os.Stat(filepath.Join(root, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSaveAndOpen(t *testing.T) {
	s := newTestStorage(t)
	content := []byte("media bytes")

	relPath, err := s.SaveUpload(bytes.NewReader(content), "a1b2.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("uploads", "a1b2.jpg"), relPath)

	f, err := s.Open(relPath)
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSaveThumbnailOverwrites(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.SaveThumbnail(strings.NewReader("v1"), "a_thumb.jpg")
	require.NoError(t, err)
	relPath, err := s.SaveThumbnail(strings.NewReader("v2"), "a_thumb.jpg")
	require.NoError(t, err)

	f, err := s.Open(relPath)
	require.NoError(t, err)
	defer f.Close()
	got, _ := io.ReadAll(f)
	assert.Equal(t, "v2", string(got))
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	s := newTestStorage(t)

	relPath, err := s.SaveUpload(strings.NewReader("x"), "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("uploads", "passwd"), relPath)
}

func TestAbsolutePathConfinesTraversal(t *testing.T) {
	s := newTestStorage(t)

	abs := s.AbsolutePath("../../etc/passwd")
	assert.True(t, strings.HasPrefix(abs, s.rootPath))
}

func TestOpenMissingFile(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Open("uploads/nope.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteFile(t *testing.T) {
	s := newTestStorage(t)

	relPath, err := s.SaveUpload(strings.NewReader("x"), "gone.jpg")
	require.NoError(t, err)

	require.NoError(t, s.DeleteFile(relPath))
	_, err = s.Open(relPath)
	require.Error(t, err)

	// Missing file is not an error
	require.NoError(t, s.DeleteFile(relPath))
}
