package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
)

// SaveUser inserts a new user row. A duplicate email surfaces as a 400 with
// the exact message the signup form shows.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
	INSERT INTO users(name, email, password_hash, is_staff, onboarding_pending)
	VALUES($1, $2, $3, $4, TRUE)
	RETURNING id`,
		user.Name, user.Email, user.PassHash, user.Staff).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return -1, &internal_errors.ErrorWithStatusCode{Message: "Email already registered.", StatusCode: http.StatusBadRequest}
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(userSelect+" WHERE email = $1", email))
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(userSelect+" WHERE id = $1", id))
}

const userSelect = `
	SELECT id, name, email, password_hash, is_staff, is_active, onboarding_pending, created_at
	FROM users`

func (s *Storage) scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.Id, &user.Name, &user.Email, &user.PassHash,
		&user.Staff, &user.Active, &user.OnboardingPending, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, err
	}
	return user, nil
}

// ClearOnboardingPending acknowledges the onboarding modal: the flag is
// consumed once and stays cleared.
func (s *Storage) ClearOnboardingPending(ctx context.Context, id domain.UserId) error {
	result, err := s.db.Exec("UPDATE users SET onboarding_pending = FALSE WHERE id = $1", id)
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
	return nil
}

// RecentlySuspendedUsers feeds the suspension cache (see internal/suspension).
func (s *Storage) RecentlySuspendedUsers(since time.Time) ([]domain.UserId, error) {
	rows, err := s.db.Query(`
	SELECT id FROM users
	WHERE is_active = FALSE AND suspended_at >= $1`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []domain.UserId
	for rows.Next() {
		var id domain.UserId
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
