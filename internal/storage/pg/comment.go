package pg

import (
	"context"
	"fmt"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
)

// CreateComment appends a comment and returns the post's comment count after
// the insert.
func (s *Storage) CreateComment(ctx context.Context, userId domain.UserId, postId domain.PostId, content string) (int64, error) {
	_, err := s.db.Exec(`
	INSERT INTO comments(user_id, post_id, content)
	VALUES($1, $2, $3)`,
		userId, postId, content)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, internal_errors.NotFound("Post not found")
		}
		return 0, fmt.Errorf("failed to insert comment: %w", err)
	}

	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = $1", postId).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
