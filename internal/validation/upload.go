package validation

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/redvibe-dev/redvibe/internal/config"
	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/logger"
	"github.com/redvibe-dev/redvibe/internal/media"
)

// DurationProber extracts a video's duration in seconds.
// It returns media.ErrProbeUnavailable when no probing runtime exists.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// UploadValidator rejects media uploads failing type, size or duration
// constraints before anything is persisted.
type UploadValidator struct {
	cfg    *config.Public
	prober DurationProber
}

func NewUploadValidator(cfg *config.Public, prober DurationProber) *UploadValidator {
	return &UploadValidator{cfg: cfg, prober: prober}
}

// ValidateUpload checks the declared name's extension against the allow-list,
// the byte size against the hard cap, and (for videos) the probed duration
// against the limit. On success the returned PendingUpload holds the open
// file stream positioned at the start; the caller owns closing it.
func (v *UploadValidator) ValidateUpload(ctx context.Context, fh *multipart.FileHeader) (*domain.PendingUpload, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))

	mediaType, ok := v.classify(ext)
	if !ok {
		return nil, internal_errors.BadRequest(MsgUnsupportedType)
	}

	if fh.Size > v.cfg.MaxUploadBytes {
		return nil, internal_errors.BadRequest(MsgFileTooLarge)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, err
	}

	if mediaType == domain.MediaVideo {
		if err := v.checkDuration(ctx, file, ext); err != nil {
			file.Close()
			return nil, err
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			file.Close()
			return nil, err
		}
	}

	return &domain.PendingUpload{
		Filename:  fh.Filename,
		Extension: ext,
		SizeBytes: fh.Size,
		MediaType: mediaType,
		Data:      file,
	}, nil
}

func (v *UploadValidator) classify(ext string) (domain.MediaType, bool) {
	for _, e := range v.cfg.ImageExtensions {
		if ext == e {
			return domain.MediaImage, true
		}
	}
	for _, e := range v.cfg.VideoExtensions {
		if ext == e {
			return domain.MediaVideo, true
		}
	}
	return "", false
}

// checkDuration spools the upload to a temp file solely to probe its
// duration. The temp file is removed regardless of outcome. A missing or
// failing probe runtime does not reject the upload: availability wins over
// strictness here, only a confirmed over-limit duration rejects.
func (v *UploadValidator) checkDuration(ctx context.Context, file multipart.File, ext string) error {
	tmp, err := os.CreateTemp("", "upload_probe_*"+ext)
	if err != nil {
		logger.Log.Warn("duration probe skipped, temp file creation failed", "error", err)
		return nil
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, file)
	tmp.Close()
	if copyErr != nil {
		logger.Log.Warn("duration probe skipped, temp spool failed", "error", copyErr)
		return nil
	}

	probeCtx := ctx
	if v.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, v.cfg.ProbeTimeout)
		defer cancel()
	}

	duration, err := v.prober.Duration(probeCtx, tmpPath)
	if err != nil {
		if !errors.Is(err, media.ErrProbeUnavailable) {
			logger.Log.Warn("duration probe failed, passing upload unchecked", "error", err)
		}
		return nil
	}

	if duration > v.cfg.MaxVideoSeconds {
		return internal_errors.BadRequest(MsgVideoTooLong)
	}
	return nil
}
