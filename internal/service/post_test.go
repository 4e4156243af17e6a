package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redvibe-dev/redvibe/internal/domain"
	"github.com/redvibe-dev/redvibe/internal/media"
)

type MockPostStorage struct {
	CreatePostFunc     func(ctx context.Context, creatorId domain.UserId, mediaPath string, mediaType domain.MediaType, description string) (domain.PostId, error)
	GetPostFunc        func(id domain.PostId) (*domain.Post, error)
	FeedFunc           func(ctx context.Context) ([]domain.Post, error)
	PostsByCreatorFunc func(ctx context.Context, creatorId domain.UserId) ([]domain.Post, error)
	ProfileStatsFunc   func(ctx context.Context, userId, viewerId domain.UserId) (domain.ProfileStats, error)
	UserByIdFunc       func(id domain.UserId) (domain.User, error)
}

func (m *MockPostStorage) CreatePost(ctx context.Context, creatorId domain.UserId, mediaPath string, mediaType domain.MediaType, description string) (domain.PostId, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, creatorId, mediaPath, mediaType, description)
	}
	return 1, nil
}

func (m *MockPostStorage) GetPost(id domain.PostId) (*domain.Post, error) {
	if m.GetPostFunc != nil {
		return m.GetPostFunc(id)
	}
	return &domain.Post{Id: id}, nil
}

func (m *MockPostStorage) Feed(ctx context.Context) ([]domain.Post, error) {
	if m.FeedFunc != nil {
		return m.FeedFunc(ctx)
	}
	return nil, nil
}

func (m *MockPostStorage) PostsByCreator(ctx context.Context, creatorId domain.UserId) ([]domain.Post, error) {
	if m.PostsByCreatorFunc != nil {
		return m.PostsByCreatorFunc(ctx, creatorId)
	}
	return nil, nil
}

func (m *MockPostStorage) ProfileStats(ctx context.Context, userId, viewerId domain.UserId) (domain.ProfileStats, error) {
	if m.ProfileStatsFunc != nil {
		return m.ProfileStatsFunc(ctx, userId, viewerId)
	}
	return domain.ProfileStats{}, nil
}

func (m *MockPostStorage) UserById(id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.User{Id: id}, nil
}

type MockMediaStorage struct {
	SaveUploadFunc func(fileData io.Reader, filename string) (string, error)
	DeleteFileFunc func(relPath string) error
}

func (m *MockMediaStorage) SaveUpload(fileData io.Reader, filename string) (string, error) {
	if m.SaveUploadFunc != nil {
		return m.SaveUploadFunc(fileData, filename)
	}
	return "uploads/" + filename, nil
}

func (m *MockMediaStorage) DeleteFile(relPath string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(relPath)
	}
	return nil
}

type MockUploadValidator struct {
	ValidateUploadFunc func(ctx context.Context, fh *multipart.FileHeader) (*domain.PendingUpload, error)
}

func (m *MockUploadValidator) ValidateUpload(ctx context.Context, fh *multipart.FileHeader) (*domain.PendingUpload, error) {
	if m.ValidateUploadFunc != nil {
		return m.ValidateUploadFunc(ctx, fh)
	}
	return &domain.PendingUpload{
		Filename:  "cat.jpg",
		Extension: ".jpg",
		MediaType: domain.MediaImage,
		Data:      bytes.NewReader([]byte("image-bytes")),
	}, nil
}

type MockEnqueuer struct {
	EnqueueFunc func(job media.Job) bool
	jobs        []media.Job
}

func (m *MockEnqueuer) Enqueue(job media.Job) bool {
	m.jobs = append(m.jobs, job)
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(job)
	}
	return true
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	creator := &domain.User{Id: 7, Email: "creator@example.com"}
	fh := &multipart.FileHeader{Filename: "cat.jpg", Size: 11}

	t.Run("Successful create stores file then row then enqueues", func(t *testing.T) {
		storage := &MockPostStorage{}
		files := &MockMediaStorage{}
		enqueuer := &MockEnqueuer{}

		var savedName, savedPath string
		files.SaveUploadFunc = func(fileData io.Reader, filename string) (string, error) {
			savedName = filename
			savedPath = "uploads/" + filename
			return savedPath, nil
		}
		storage.CreatePostFunc = func(ctx context.Context, creatorId domain.UserId, mediaPath string, mediaType domain.MediaType, description string) (domain.PostId, error) {
			assert.Equal(t, creator.Id, creatorId)
			assert.Equal(t, savedPath, mediaPath)
			assert.Equal(t, domain.MediaImage, mediaType)
			assert.Equal(t, "first post", description)
			return 33, nil
		}

		service := NewPost(storage, files, &MockUploadValidator{}, enqueuer)
		id, err := service.Create(ctx, creator, fh, "  first post ")

		require.NoError(t, err)
		assert.Equal(t, domain.PostId(33), id)
		// Stored name is generated, never the client filename
		assert.NotEqual(t, "cat.jpg", savedName)
		assert.True(t, strings.HasSuffix(savedName, ".jpg"))
		require.Len(t, enqueuer.jobs, 1)
		assert.Equal(t, domain.PostId(33), enqueuer.jobs[0].PostId)
		assert.Equal(t, savedPath, enqueuer.jobs[0].MediaPath)
	})

	t.Run("Validation failure stops before any write", func(t *testing.T) {
		mockError := errors.New("bad upload")
		validator := &MockUploadValidator{}
		validator.ValidateUploadFunc = func(ctx context.Context, fh *multipart.FileHeader) (*domain.PendingUpload, error) {
			return nil, mockError
		}
		saveCalled := false
		files := &MockMediaStorage{}
		files.SaveUploadFunc = func(fileData io.Reader, filename string) (string, error) {
			saveCalled = true
			return "", nil
		}

		service := NewPost(&MockPostStorage{}, files, validator, &MockEnqueuer{})
		_, err := service.Create(ctx, creator, fh, "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, mockError))
		assert.False(t, saveCalled)
	})

	t.Run("Row insert failure removes the orphaned file", func(t *testing.T) {
		mockError := errors.New("insert failed")
		storage := &MockPostStorage{}
		storage.CreatePostFunc = func(ctx context.Context, creatorId domain.UserId, mediaPath string, mediaType domain.MediaType, description string) (domain.PostId, error) {
			return 0, mockError
		}
		var deleted string
		files := &MockMediaStorage{}
		files.DeleteFileFunc = func(relPath string) error {
			deleted = relPath
			return nil
		}
		enqueuer := &MockEnqueuer{}

		service := NewPost(storage, files, &MockUploadValidator{}, enqueuer)
		_, err := service.Create(ctx, creator, fh, "")

		require.Error(t, err)
		assert.NotEmpty(t, deleted)
		assert.Empty(t, enqueuer.jobs)
	})

	t.Run("Full derivation queue does not fail the upload", func(t *testing.T) {
		enqueuer := &MockEnqueuer{}
		enqueuer.EnqueueFunc = func(job media.Job) bool { return false }

		service := NewPost(&MockPostStorage{}, &MockMediaStorage{}, &MockUploadValidator{}, enqueuer)
		id, err := service.Create(ctx, creator, fh, "")

		require.NoError(t, err)
		assert.Equal(t, domain.PostId(1), id)
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Aggregates user, posts and stats", func(t *testing.T) {
		storage := &MockPostStorage{}
		storage.UserByIdFunc = func(id domain.UserId) (domain.User, error) {
			return domain.User{Id: id, Name: "alice"}, nil
		}
		storage.PostsByCreatorFunc = func(ctx context.Context, creatorId domain.UserId) ([]domain.Post, error) {
			return []domain.Post{{Id: 1}, {Id: 2}}, nil
		}
		storage.ProfileStatsFunc = func(ctx context.Context, userId, viewerId domain.UserId) (domain.ProfileStats, error) {
			return domain.ProfileStats{Followers: 3, Following: 1, Posts: 2, IsFollowing: true}, nil
		}

		service := NewPost(storage, &MockMediaStorage{}, &MockUploadValidator{}, &MockEnqueuer{})
		user, posts, stats, err := service.Profile(ctx, 4, 9)

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Name)
		assert.Len(t, posts, 2)
		assert.Equal(t, int64(3), stats.Followers)
		assert.True(t, stats.IsFollowing)
	})

	t.Run("Unknown user propagates error", func(t *testing.T) {
		mockError := errors.New("no such user")
		storage := &MockPostStorage{}
		storage.UserByIdFunc = func(id domain.UserId) (domain.User, error) {
			return domain.User{}, mockError
		}

		service := NewPost(storage, &MockMediaStorage{}, &MockUploadValidator{}, &MockEnqueuer{})
		_, _, _, err := service.Profile(ctx, 404, 0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, mockError))
	})
}
