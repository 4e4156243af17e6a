package service

import (
	"context"

	"github.com/redvibe-dev/redvibe/internal/domain"
	"github.com/redvibe-dev/redvibe/internal/errors"
)

type RelationService interface {
	ToggleLike(ctx context.Context, userId domain.UserId, postId domain.PostId) (liked bool, count int64, err error)
	ToggleFollow(ctx context.Context, followerId, followingId domain.UserId) (following bool, count int64, err error)
}

// Relation implements the flip semantics shared by likes and follows: each
// call creates the unique (actor, target) row or deletes the existing one,
// and reports the resulting membership count.
type Relation struct {
	storage RelationStorage
}

type RelationStorage interface {
	ToggleLike(ctx context.Context, userId domain.UserId, postId domain.PostId) (bool, int64, error)
	ToggleFollow(ctx context.Context, followerId, followingId domain.UserId) (bool, int64, error)
}

func NewRelation(storage RelationStorage) *Relation {
	return &Relation{storage: storage}
}

func (r *Relation) ToggleLike(ctx context.Context, userId domain.UserId, postId domain.PostId) (bool, int64, error) {
	return r.storage.ToggleLike(ctx, userId, postId)
}

// ToggleFollow rejects self-follows before touching storage; the data model
// itself doesn't forbid the pair.
func (r *Relation) ToggleFollow(ctx context.Context, followerId, followingId domain.UserId) (bool, int64, error) {
	if followerId == followingId {
		return false, 0, errors.BadRequest("Cannot follow yourself")
	}
	return r.storage.ToggleFollow(ctx, followerId, followingId)
}
