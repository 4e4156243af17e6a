package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFolder(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0644))
	return dir
}

const testPrivate = `
pg:
  host: "localhost"
  port: 5432
  user: "app"
  password: "secret"
  dbname: "app"
jwt_key: "test-key"
`

func TestMustLoad(t *testing.T) {
	t.Run("Loads explicit values", func(t *testing.T) {
		public := `
port: 9090
log_level: "debug"
media_root: "/var/media"
jwt_ttl: 24h
max_upload_bytes: 1048576
max_video_seconds: 30
max_comment_length: 200
`
		dir := writeConfigFolder(t, public, testPrivate)

		cfg := MustLoad(dir)

		assert.Equal(t, 9090, cfg.Public.Port)
		assert.Equal(t, "debug", cfg.Public.LogLevel)
		assert.Equal(t, "/var/media", cfg.Public.MediaRoot)
		assert.Equal(t, 24*time.Hour, cfg.JwtTTL())
		assert.Equal(t, int64(1048576), cfg.Public.MaxUploadBytes)
		assert.Equal(t, float64(30), cfg.Public.MaxVideoSeconds)
		assert.Equal(t, 200, cfg.Public.MaxCommentLength)
		assert.Equal(t, "test-key", cfg.JwtKey())
		assert.Equal(t, "secret", cfg.Private.Pg.Password)
	})

	t.Run("Missing knobs fall back to defaults", func(t *testing.T) {
		dir := writeConfigFolder(t, "port: 8080\n", testPrivate)

		cfg := MustLoad(dir)

		assert.Equal(t, int64(50<<20), cfg.Public.MaxUploadBytes)
		assert.Equal(t, float64(60), cfg.Public.MaxVideoSeconds)
		assert.Equal(t, []string{".jpg", ".jpeg", ".png"}, cfg.Public.ImageExtensions)
		assert.Equal(t, []string{".mp4", ".mov"}, cfg.Public.VideoExtensions)
		assert.Equal(t, 640, cfg.Public.ThumbnailMaxDim)
		assert.Equal(t, 85, cfg.Public.ThumbnailJPEGQuality)
		assert.Equal(t, 128, cfg.Public.DerivationQueueSize)
		assert.Equal(t, 500, cfg.Public.MaxCommentLength)
		assert.Equal(t, time.Minute, cfg.Public.SuspensionRefreshInterval)
	})

	t.Run("Missing config file panics", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(t.TempDir()) })
	})

	t.Run("Malformed yaml panics", func(t *testing.T) {
		dir := writeConfigFolder(t, "port: [not-an-int", testPrivate)
		assert.Panics(t, func() { MustLoad(dir) })
	})
}
