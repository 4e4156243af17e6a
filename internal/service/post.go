package service

import (
	"context"
	"io"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"github.com/redvibe-dev/redvibe/internal/domain"
	"github.com/redvibe-dev/redvibe/internal/logger"
	"github.com/redvibe-dev/redvibe/internal/media"
)

type PostService interface {
	Create(ctx context.Context, creator *domain.User, fh *multipart.FileHeader, description string) (domain.PostId, error)
	Get(id domain.PostId) (*domain.Post, error)
	Feed(ctx context.Context) ([]domain.Post, error)
	Profile(ctx context.Context, userId, viewerId domain.UserId) (domain.User, []domain.Post, domain.ProfileStats, error)
}

type Post struct {
	storage   PostStorage
	files     MediaStorage
	validator UploadValidator
	thumbs    ThumbnailEnqueuer
}

type PostStorage interface {
	CreatePost(ctx context.Context, creatorId domain.UserId, mediaPath string, mediaType domain.MediaType, description string) (domain.PostId, error)
	GetPost(id domain.PostId) (*domain.Post, error)
	Feed(ctx context.Context) ([]domain.Post, error)
	PostsByCreator(ctx context.Context, creatorId domain.UserId) ([]domain.Post, error)
	ProfileStats(ctx context.Context, userId, viewerId domain.UserId) (domain.ProfileStats, error)
	UserById(id domain.UserId) (domain.User, error)
}

// MediaStorage persists uploaded binaries and reclaims them on deletion.
type MediaStorage interface {
	SaveUpload(fileData io.Reader, filename string) (string, error)
	DeleteFile(relPath string) error
}

type UploadValidator interface {
	ValidateUpload(ctx context.Context, fh *multipart.FileHeader) (*domain.PendingUpload, error)
}

// ThumbnailEnqueuer hands derivation work to the background worker.
type ThumbnailEnqueuer interface {
	Enqueue(job media.Job) bool
}

func NewPost(storage PostStorage, files MediaStorage, validator UploadValidator, thumbs ThumbnailEnqueuer) *Post {
	return &Post{storage: storage, files: files, validator: validator, thumbs: thumbs}
}

// Create validates the upload, persists file then row, and enqueues
// best-effort thumbnail derivation. Derivation never blocks or fails the
// upload: the post simply stays without a thumbnail if it goes wrong.
func (p *Post) Create(ctx context.Context, creator *domain.User, fh *multipart.FileHeader, description string) (domain.PostId, error) {
	pending, err := p.validator.ValidateUpload(ctx, fh)
	if err != nil {
		return -1, err
	}
	if closer, ok := pending.Data.(io.Closer); ok {
		defer closer.Close()
	}

	// Stored name is generated, never the user-supplied filename.
	storedName := uuid.NewString() + pending.Extension
	mediaPath, err := p.files.SaveUpload(pending.Data, storedName)
	if err != nil {
		return -1, err
	}

	id, err := p.storage.CreatePost(ctx, creator.Id, mediaPath, pending.MediaType, strings.TrimSpace(description))
	if err != nil {
		if cleanupErr := p.files.DeleteFile(mediaPath); cleanupErr != nil {
			logger.Log.Warn("failed to remove orphaned upload", "path", mediaPath, "error", cleanupErr)
		}
		return -1, err
	}

	p.thumbs.Enqueue(media.Job{PostId: id, MediaPath: mediaPath, MediaType: pending.MediaType})

	return id, nil
}

func (p *Post) Get(id domain.PostId) (*domain.Post, error) {
	return p.storage.GetPost(id)
}

func (p *Post) Feed(ctx context.Context) ([]domain.Post, error) {
	return p.storage.Feed(ctx)
}

// Profile returns a user's page: the user, their posts and the aggregate
// stats relative to the viewer. viewerId <= 0 means an anonymous viewer.
func (p *Post) Profile(ctx context.Context, userId, viewerId domain.UserId) (domain.User, []domain.Post, domain.ProfileStats, error) {
	user, err := p.storage.UserById(userId)
	if err != nil {
		return domain.User{}, nil, domain.ProfileStats{}, err
	}

	posts, err := p.storage.PostsByCreator(ctx, userId)
	if err != nil {
		return domain.User{}, nil, domain.ProfileStats{}, err
	}

	stats, err := p.storage.ProfileStats(ctx, userId, viewerId)
	if err != nil {
		return domain.User{}, nil, domain.ProfileStats{}, err
	}

	return user, posts, stats, nil
}
