package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/redvibe-dev/redvibe/internal/domain"
	jwt_internal "github.com/redvibe-dev/redvibe/internal/jwt"
	"github.com/redvibe-dev/redvibe/internal/logger"
)

// SuspensionCache answers whether a user's account was suspended after their
// token was issued.
type SuspensionCache interface {
	IsSuspended(userId domain.UserId) bool
}

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

type Auth struct {
	jwtService      jwt_internal.JwtService
	suspensionCache SuspensionCache
	secureCookies   bool
}

func NewAuth(jwtService jwt_internal.JwtService, suspensionCache SuspensionCache, secureCookies bool) *Auth {
	return &Auth{
		jwtService:      jwtService,
		suspensionCache: suspensionCache,
		secureCookies:   secureCookies,
	}
}

// NeedAuth returns middleware that requires a valid token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// StaffOnly returns middleware that additionally requires the staff claim.
func (a *Auth) StaffOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates the user context when a valid token is present but
// lets anonymous requests through. Feed and profile pages use it.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, _ := a.extractUser(r); user != nil {
				ctx := context.WithValue(r.Context(), UserClaimsKey, user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractUser pulls the token from the cookie (browser clients) or the
// Authorization header (API clients) and validates it.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	uidFloat, ok := claims["uid"].(float64)
	if !ok {
		return nil, errInvalidClaims
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, errInvalidClaims
	}
	staff, ok := claims["staff"].(bool)
	if !ok {
		return nil, errInvalidClaims
	}

	user := &domain.User{
		Id:    int64(uidFloat),
		Email: email,
		Staff: staff,
	}

	if a.suspensionCache != nil && a.suspensionCache.IsSuspended(user.Id) {
		return nil, errSuspended
	}

	return user, nil
}

var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
	errSuspended     = errorString("suspended")
)

type errorString string

func (e errorString) Error() string { return string(e) }

func (a *Auth) auth(staffOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				switch err {
				case errNoToken:
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errSuspended:
					// Clear the cookie to force re-login
					cookie := &http.Cookie{
						Path:     "/",
						Name:     "accessToken",
						Value:    "",
						MaxAge:   -1,
						HttpOnly: true,
						Secure:   a.secureCookies,
						SameSite: http.SameSiteLaxMode,
					}
					http.SetCookie(w, cookie)
					http.Error(w, "Account suspended", http.StatusForbidden)
				case errInvalidClaims:
					logger.Log.Error("invalid jwt claims")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				}
				return
			}

			if staffOnly && !user.Staff {
				http.Error(w, "Access denied. Staff only.", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the authenticated user, or nil.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
