package validation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redvibe-dev/redvibe/internal/config"
	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/media"
)

type MockProber struct {
	DurationFunc func(ctx context.Context, path string) (float64, error)
	called       bool
}

func (m *MockProber) Duration(ctx context.Context, path string) (float64, error) {
	m.called = true
	if m.DurationFunc != nil {
		return m.DurationFunc(ctx, path)
	}
	return 10, nil
}

func testConfig() *config.Public {
	return &config.Public{
		MaxUploadBytes:  50 << 20,
		MaxVideoSeconds: 60,
		ImageExtensions: []string{".jpg", ".jpeg", ".png"},
		VideoExtensions: []string{".mp4", ".mov"},
	}
}

// makeFileHeader builds a real multipart.FileHeader by round-tripping a
// form through the http parser.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("media", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(64<<20))

	files := req.MultipartForm.File["media"]
	require.Len(t, files, 1)
	return files[0]
}

func assertBadRequest(t *testing.T, err error, wantMsg string) {
	t.Helper()
	require.Error(t, err)
	var statusErr *internal_errors.ErrorWithStatusCode
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, wantMsg, statusErr.Message)
}

func TestValidateUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepts allowed image extensions case-insensitively", func(t *testing.T) {
		v := NewUploadValidator(testConfig(), &MockProber{})

		for _, name := range []string{"cat.jpg", "cat.JPG", "cat.Png", "cat.JPEG"} {
			pending, err := v.ValidateUpload(ctx, makeFileHeader(t, name, []byte("data")))

			require.NoError(t, err, name)
			assert.Equal(t, domain.MediaImage, pending.MediaType)
			pending.Data.(io.Closer).Close()
		}
	})

	t.Run("Classifies videos and probes duration", func(t *testing.T) {
		prober := &MockProber{}
		v := NewUploadValidator(testConfig(), prober)

		pending, err := v.ValidateUpload(ctx, makeFileHeader(t, "clip.mp4", []byte("data")))

		require.NoError(t, err)
		assert.Equal(t, domain.MediaVideo, pending.MediaType)
		assert.True(t, prober.called)
		pending.Data.(io.Closer).Close()
	})

	t.Run("Images are never probed", func(t *testing.T) {
		prober := &MockProber{}
		v := NewUploadValidator(testConfig(), prober)

		pending, err := v.ValidateUpload(ctx, makeFileHeader(t, "cat.jpg", []byte("data")))

		require.NoError(t, err)
		assert.False(t, prober.called)
		pending.Data.(io.Closer).Close()
	})

	t.Run("Unsupported extension rejected with fixed message", func(t *testing.T) {
		v := NewUploadValidator(testConfig(), &MockProber{})

		for _, name := range []string{"doc.pdf", "page.html", "noext", "shot.gif"} {
			_, err := v.ValidateUpload(ctx, makeFileHeader(t, name, []byte("data")))
			assertBadRequest(t, err, MsgUnsupportedType)
		}
	})

	t.Run("Oversize file rejected", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxUploadBytes = 4
		v := NewUploadValidator(cfg, &MockProber{})

		_, err := v.ValidateUpload(ctx, makeFileHeader(t, "cat.jpg", []byte("12345")))

		assertBadRequest(t, err, MsgFileTooLarge)
	})

	t.Run("Over-limit duration rejected", func(t *testing.T) {
		prober := &MockProber{}
		prober.DurationFunc = func(ctx context.Context, path string) (float64, error) {
			return 61.5, nil
		}
		v := NewUploadValidator(testConfig(), prober)

		_, err := v.ValidateUpload(ctx, makeFileHeader(t, "clip.mp4", []byte("data")))

		assertBadRequest(t, err, MsgVideoTooLong)
	})

	t.Run("Duration exactly at the limit passes", func(t *testing.T) {
		prober := &MockProber{}
		prober.DurationFunc = func(ctx context.Context, path string) (float64, error) {
			return 60, nil
		}
		v := NewUploadValidator(testConfig(), prober)

		pending, err := v.ValidateUpload(ctx, makeFileHeader(t, "clip.mp4", []byte("data")))

		require.NoError(t, err)
		pending.Data.(io.Closer).Close()
	})

	t.Run("Unavailable probe runtime passes the upload through", func(t *testing.T) {
		prober := &MockProber{}
		prober.DurationFunc = func(ctx context.Context, path string) (float64, error) {
			return 0, media.ErrProbeUnavailable
		}
		v := NewUploadValidator(testConfig(), prober)

		pending, err := v.ValidateUpload(ctx, makeFileHeader(t, "clip.mp4", []byte("data")))

		require.NoError(t, err)
		assert.Equal(t, domain.MediaVideo, pending.MediaType)
		pending.Data.(io.Closer).Close()
	})

	t.Run("Probe error passes the upload through", func(t *testing.T) {
		prober := &MockProber{}
		prober.DurationFunc = func(ctx context.Context, path string) (float64, error) {
			return 0, errors.New("corrupt container")
		}
		v := NewUploadValidator(testConfig(), prober)

		pending, err := v.ValidateUpload(ctx, makeFileHeader(t, "clip.mov", []byte("data")))

		require.NoError(t, err)
		pending.Data.(io.Closer).Close()
	})

	t.Run("Video stream is rewound after probing", func(t *testing.T) {
		v := NewUploadValidator(testConfig(), &MockProber{})
		content := []byte("full-video-bytes")

		pending, err := v.ValidateUpload(ctx, makeFileHeader(t, "clip.mp4", content))

		require.NoError(t, err)
		got, err := io.ReadAll(pending.Data)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		pending.Data.(io.Closer).Close()
	})
}
