package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
)

type MockCommentStorage struct {
	CreateCommentFunc func(ctx context.Context, userId domain.UserId, postId domain.PostId, content string) (int64, error)
}

func (m *MockCommentStorage) CreateComment(ctx context.Context, userId domain.UserId, postId domain.PostId, content string) (int64, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, userId, postId, content)
	}
	return 1, nil
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	const maxLen = 500

	t.Run("Successful comment returns new count", func(t *testing.T) {
		storage := &MockCommentStorage{}
		var stored string
		storage.CreateCommentFunc = func(ctx context.Context, userId domain.UserId, postId domain.PostId, content string) (int64, error) {
			stored = content
			return 3, nil
		}
		service := NewComment(storage, maxLen)

		count, err := service.Add(ctx, 1, 2, "  nice shot  ")

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.Equal(t, "nice shot", stored)
	})

	t.Run("Empty after trim is rejected", func(t *testing.T) {
		service := NewComment(&MockCommentStorage{}, maxLen)

		_, err := service.Add(ctx, 1, 2, "   \n\t ")

		require.Error(t, err)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
		assert.Equal(t, "Comment cannot be empty.", statusErr.Message)
	})

	t.Run("Exactly max length is accepted", func(t *testing.T) {
		service := NewComment(&MockCommentStorage{}, maxLen)

		_, err := service.Add(ctx, 1, 2, strings.Repeat("a", maxLen))

		require.NoError(t, err)
	})

	t.Run("Length counts characters not bytes", func(t *testing.T) {
		service := NewComment(&MockCommentStorage{}, maxLen)

		// 500 two-byte characters: valid despite being 1000 bytes.
		_, err := service.Add(ctx, 1, 2, strings.Repeat("é", maxLen))
		require.NoError(t, err)

		_, err = service.Add(ctx, 1, 2, strings.Repeat("é", maxLen+1))
		require.Error(t, err)
	})

	t.Run("Over max length is rejected", func(t *testing.T) {
		service := NewComment(&MockCommentStorage{}, maxLen)

		_, err := service.Add(ctx, 1, 2, strings.Repeat("a", maxLen+1))

		require.Error(t, err)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
		assert.Equal(t, "Comment must be 500 characters or fewer.", statusErr.Message)
	})

	t.Run("Missing post error passes through", func(t *testing.T) {
		storage := &MockCommentStorage{}
		storage.CreateCommentFunc = func(ctx context.Context, userId domain.UserId, postId domain.PostId, content string) (int64, error) {
			return 0, internal_errors.NotFound("Post not found")
		}
		service := NewComment(storage, maxLen)

		_, err := service.Add(ctx, 1, 999, "hello")

		require.Error(t, err)
		assert.True(t, internal_errors.IsNotFound(err))
	})
}
