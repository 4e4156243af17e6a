package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
)

func (s *Storage) CreatePost(ctx context.Context, creatorId domain.UserId, mediaPath string, mediaType domain.MediaType, description string) (domain.PostId, error) {
	var id domain.PostId
	err := s.db.QueryRow(`
	INSERT INTO posts(creator_id, media_path, media_type, description)
	VALUES($1, $2, $3, $4)
	RETURNING id`,
		creatorId, mediaPath, mediaType, description).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return -1, internal_errors.NotFound("User not found")
		}
		return -1, fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}

// SetPostThumbnail records a derived thumbnail. The thumbnail field is
// written exactly once per derivation; re-derivation overwrites it with the
// same deterministic path.
func (s *Storage) SetPostThumbnail(ctx context.Context, id domain.PostId, thumbnailPath string) error {
	result, err := s.db.Exec("UPDATE posts SET thumbnail_path = $1 WHERE id = $2", thumbnailPath, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Post deleted between commit and derivation; nothing to record.
		return internal_errors.NotFound("Post not found")
	}
	return nil
}

const postSelect = `
	SELECT p.id, p.media_path, p.media_type, COALESCE(p.thumbnail_path, ''), p.description, p.created_at,
	       u.id, u.name, u.email,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.creator_id`

func scanPost(scanner interface{ Scan(...interface{}) error }) (domain.Post, error) {
	var p domain.Post
	err := scanner.Scan(&p.Id, &p.MediaPath, &p.MediaType, &p.ThumbnailPath, &p.Description, &p.CreatedAt,
		&p.Creator.Id, &p.Creator.Name, &p.Creator.Email,
		&p.LikeCount, &p.CommentCount)
	return p, err
}

func (s *Storage) GetPost(id domain.PostId) (*domain.Post, error) {
	post, err := scanPost(s.db.QueryRow(postSelect+" WHERE p.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Post not found")
		}
		return nil, err
	}

	posts := []domain.Post{post}
	if err := s.attachComments(posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// Feed returns all posts newest-first with creators, counts and comments.
func (s *Storage) Feed(ctx context.Context) ([]domain.Post, error) {
	return s.posts(ctx, postSelect+" ORDER BY p.created_at DESC")
}

// PostsByCreator returns one user's posts newest-first.
func (s *Storage) PostsByCreator(ctx context.Context, creatorId domain.UserId) ([]domain.Post, error) {
	return s.posts(ctx, postSelect+" WHERE p.creator_id = $1 ORDER BY p.created_at DESC", creatorId)
}

func (s *Storage) posts(ctx context.Context, query string, args ...interface{}) ([]domain.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachComments(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachComments loads comments for all posts in one query, oldest-first
// within each post.
func (s *Storage) attachComments(posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	byId := make(map[domain.PostId]*domain.Post, len(posts))
	for i := range posts {
		ids[i] = posts[i].Id
		byId[posts[i].Id] = &posts[i]
	}

	rows, err := s.db.Query(`
	SELECT c.id, c.post_id, c.content, c.created_at, u.id, u.name, u.email
	FROM comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.post_id = ANY($1)
	ORDER BY c.created_at`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.Id, &c.PostId, &c.Content, &c.CreatedAt,
			&c.User.Id, &c.User.Name, &c.User.Email); err != nil {
			return err
		}
		if post, ok := byId[c.PostId]; ok {
			post.Comments = append(post.Comments, c)
		}
	}
	return rows.Err()
}

// ProfileStats aggregates the counters shown on a profile page.
func (s *Storage) ProfileStats(ctx context.Context, userId, viewerId domain.UserId) (domain.ProfileStats, error) {
	var stats domain.ProfileStats
	err := s.db.QueryRow(`
	SELECT
		(SELECT COUNT(*) FROM follows WHERE following_id = $1),
		(SELECT COUNT(*) FROM follows WHERE follower_id = $1),
		(SELECT COUNT(*) FROM posts WHERE creator_id = $1),
		EXISTS(SELECT 1 FROM follows WHERE follower_id = $2 AND following_id = $1)`,
		userId, viewerId).Scan(&stats.Followers, &stats.Following, &stats.Posts, &stats.IsFollowing)
	if err != nil {
		return domain.ProfileStats{}, err
	}
	stats.IsSelf = userId == viewerId
	if stats.IsSelf {
		stats.IsFollowing = false
	}
	return stats, nil
}
