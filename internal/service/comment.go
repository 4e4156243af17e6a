package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/redvibe-dev/redvibe/internal/domain"
	"github.com/redvibe-dev/redvibe/internal/errors"
)

type CommentService interface {
	Add(ctx context.Context, userId domain.UserId, postId domain.PostId, content string) (count int64, err error)
}

type Comment struct {
	storage   CommentStorage
	maxLength int
}

type CommentStorage interface {
	CreateComment(ctx context.Context, userId domain.UserId, postId domain.PostId, content string) (int64, error)
}

func NewComment(storage CommentStorage, maxLength int) *Comment {
	return &Comment{storage: storage, maxLength: maxLength}
}

// Add appends a comment and returns the post's new comment count.
// Comments are append-only; there is no edit or delete flow.
func (c *Comment) Add(ctx context.Context, userId domain.UserId, postId domain.PostId, content string) (int64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, errors.BadRequest("Comment cannot be empty.")
	}
	// The limit counts characters, not bytes, so multibyte text gets the
	// full allowance.
	if utf8.RuneCountInString(content) > c.maxLength {
		return 0, errors.BadRequest(fmt.Sprintf("Comment must be %d characters or fewer.", c.maxLength))
	}

	return c.storage.CreateComment(ctx, userId, postId, content)
}
