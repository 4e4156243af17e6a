package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
)

// CreateReport appends a report row. Reports are never deduplicated: the
// same user may report the same post repeatedly.
func (s *Storage) CreateReport(ctx context.Context, postId domain.PostId, reporterId domain.UserId, reason domain.ReportReason, details string) error {
	_, err := s.db.Exec(`
	INSERT INTO reports(post_id, reporter_id, reason, details)
	VALUES($1, $2, $3, $4)`,
		postId, reporterId, reason, details)
	if err != nil {
		if isForeignKeyViolation(err) {
			return internal_errors.NotFound("Post not found")
		}
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Reports returns all reports newest-first with post and reporter context
// for the moderation dashboard.
func (s *Storage) Reports(ctx context.Context) ([]domain.Report, error) {
	rows, err := s.db.Query(`
	SELECT r.id, r.post_id, r.reason, r.details, r.created_at,
	       ru.id, ru.name, ru.email,
	       p.media_path, p.media_type, p.description,
	       cu.id, cu.name, cu.email
	FROM reports r
	JOIN users ru ON ru.id = r.reporter_id
	JOIN posts p ON p.id = r.post_id
	JOIN users cu ON cu.id = p.creator_id
	ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var r domain.Report
		post := domain.Post{}
		if err := rows.Scan(&r.Id, &r.PostId, &r.Reason, &r.Details, &r.CreatedAt,
			&r.Reporter.Id, &r.Reporter.Name, &r.Reporter.Email,
			&post.MediaPath, &post.MediaType, &post.Description,
			&post.Creator.Id, &post.Creator.Name, &post.Creator.Email); err != nil {
			return nil, err
		}
		post.Id = r.PostId
		r.Post = &post
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// AdminActions returns the most recent audit-log entries.
func (s *Storage) AdminActions(ctx context.Context, limit int) ([]domain.AdminAction, error) {
	rows, err := s.db.Query(`
	SELECT a.id, a.action, a.created_at, u.id, u.name, u.email
	FROM admin_action_log a
	JOIN users u ON u.id = a.admin_id
	ORDER BY a.created_at DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []domain.AdminAction
	for rows.Next() {
		var a domain.AdminAction
		if err := rows.Scan(&a.Id, &a.Action, &a.CreatedAt,
			&a.Admin.Id, &a.Admin.Name, &a.Admin.Email); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// DeletePostWithLog removes a post and appends the audit entry in one
// transaction, so the log never disagrees with the cascade. Dependent likes,
// comments and reports go with the post via FK cascades. The stored file
// paths are returned so the caller can reclaim them after commit.
func (s *Storage) DeletePostWithLog(ctx context.Context, adminId domain.UserId, postId domain.PostId, action string) (mediaPath, thumbnailPath string, err error) {
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRow(`
		DELETE FROM posts
		WHERE id = $1
		RETURNING media_path, COALESCE(thumbnail_path, '')`, postId)
		if err := row.Scan(&mediaPath, &thumbnailPath); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return internal_errors.NotFound("Post not found")
			}
			return err
		}

		return logAdminAction(tx, adminId, action)
	})
	if err != nil {
		return "", "", err
	}
	return mediaPath, thumbnailPath, nil
}

// SuspendUserWithLog flips the user's active flag off and appends the audit
// entry in the same transaction. The user's content stays.
func (s *Storage) SuspendUserWithLog(ctx context.Context, adminId, userId domain.UserId, action string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
		UPDATE users SET is_active = FALSE, suspended_at = $1
		WHERE id = $2`, time.Now().UTC(), userId)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return internal_errors.NotFound("User not found")
		}

		return logAdminAction(tx, adminId, action)
	})
}

func logAdminAction(q Querier, adminId domain.UserId, action string) error {
	if _, err := q.Exec(`
	INSERT INTO admin_action_log(admin_id, action)
	VALUES($1, $2)`, adminId, action); err != nil {
		return fmt.Errorf("failed to append admin action log: %w", err)
	}
	return nil
}
