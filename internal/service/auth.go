package service

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/redvibe-dev/redvibe/internal/domain"
	"github.com/redvibe-dev/redvibe/internal/errors"
	"github.com/redvibe-dev/redvibe/internal/logger"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string, ageConfirmed bool) (domain.User, string, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	AckOnboarding(ctx context.Context, userId domain.UserId) error
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email domain.Email) (domain.User, error)
	ClearOnboardingPending(ctx context.Context, id domain.UserId) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

const minPasswordLen = 6

// Signup registers a user and logs them in. New accounts start with the
// onboarding modal pending; the response token carries the session.
func (a *Auth) Signup(ctx context.Context, name, email, password string, ageConfirmed bool) (domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return domain.User{}, "", errors.BadRequest("Please enter your name.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, "", errors.BadRequest("Please enter a valid email address.")
	}
	if len(password) < minPasswordLen {
		return domain.User{}, "", errors.BadRequest("Password must be at least 6 characters.")
	}
	if !ageConfirmed {
		return domain.User{}, "", errors.BadRequest("You must confirm that you are 18 or older to sign up.")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, "", err
	}

	user := domain.User{
		Name:              name,
		Email:             email,
		PassHash:          string(passHash),
		Active:            true,
		OnboardingPending: true,
	}
	id, err := a.storage.SaveUser(user)
	if err != nil {
		return domain.User{}, "", err
	}
	user.Id = id

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials. The same message covers unknown email and
// wrong password so the endpoint doesn't leak which emails exist.
func (a *Auth) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, "", errors.BadRequest("Incorrect email or password.")
		}
		return domain.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return domain.User{}, "", errors.BadRequest("Incorrect email or password.")
	}

	if !user.Active {
		return domain.User{}, "", &errors.ErrorWithStatusCode{Message: "Account suspended", StatusCode: http.StatusForbidden}
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// AckOnboarding clears the pending onboarding-modal flag. The flag is only
// ever mutated here and at signup, never as a side effect of other requests.
func (a *Auth) AckOnboarding(ctx context.Context, userId domain.UserId) error {
	return a.storage.ClearOnboardingPending(ctx, userId)
}
