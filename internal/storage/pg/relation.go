package pg

import (
	"context"
	"fmt"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
)

// ToggleLike flips the (user, post) like row and returns the new membership
// state plus the post's like count after the mutation.
//
// The flip runs delete-first: if a row was removed this call is the "remove"
// branch, otherwise an insert is attempted. A concurrent duplicate insert
// aborts on the pair's unique constraint; that violation is the signal the
// row now exists, so the call retries as a delete instead of surfacing an
// error. The unique constraint keeps the pair row from ever duplicating.
func (s *Storage) ToggleLike(ctx context.Context, userId domain.UserId, postId domain.PostId) (bool, int64, error) {
	liked, err := s.toggleRow(ctx, toggleQueries{
		delete:        "DELETE FROM likes WHERE user_id = $1 AND post_id = $2",
		insert:        "INSERT INTO likes(user_id, post_id) VALUES($1, $2)",
		missingTarget: "Post not found",
	}, userId, postId)
	if err != nil {
		return false, 0, err
	}

	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM likes WHERE post_id = $1", postId).Scan(&count); err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// ToggleFollow flips the (follower, following) row and returns the new state
// plus the target's follower count after the mutation.
func (s *Storage) ToggleFollow(ctx context.Context, followerId, followingId domain.UserId) (bool, int64, error) {
	following, err := s.toggleRow(ctx, toggleQueries{
		delete:        "DELETE FROM follows WHERE follower_id = $1 AND following_id = $2",
		insert:        "INSERT INTO follows(follower_id, following_id) VALUES($1, $2)",
		missingTarget: "User not found",
	}, followerId, followingId)
	if err != nil {
		return false, 0, err
	}

	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM follows WHERE following_id = $1", followingId).Scan(&count); err != nil {
		return false, 0, err
	}
	return following, count, nil
}

type toggleQueries struct {
	delete        string
	insert        string
	missingTarget string
}

// toggleRow returns true if the call ended with the row present (created),
// false if it ended with the row absent (removed).
func (s *Storage) toggleRow(ctx context.Context, q toggleQueries, actor, target int64) (bool, error) {
	result, err := s.db.Exec(q.delete, actor, target)
	if err != nil {
		return false, fmt.Errorf("toggle delete failed: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if deleted > 0 {
		return false, nil
	}

	_, err = s.db.Exec(q.insert, actor, target)
	if err == nil {
		return true, nil
	}
	if isForeignKeyViolation(err) {
		return false, internal_errors.NotFound(q.missingTarget)
	}
	if !isUniqueViolation(err) {
		return false, fmt.Errorf("toggle insert failed: %w", err)
	}

	// Lost the race against a concurrent identical toggle: the row exists
	// now, so this call becomes the delete branch.
	result, err = s.db.Exec(q.delete, actor, target)
	if err != nil {
		return false, fmt.Errorf("toggle retry delete failed: %w", err)
	}
	if _, err := result.RowsAffected(); err != nil {
		return false, err
	}
	return false, nil
}

// IsFollowing reports whether follower currently follows following.
func (s *Storage) IsFollowing(ctx context.Context, followerId, followingId domain.UserId) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)",
		followerId, followingId).Scan(&exists)
	return exists, err
}
