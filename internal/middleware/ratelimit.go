package middleware

import (
	"fmt"
	"net/http"

	"github.com/redvibe-dev/redvibe/internal/middleware/ratelimiter"
	"github.com/redvibe-dev/redvibe/internal/utils"
)

// RateLimit limits requests per identity. Staff are exempt.
func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.Staff {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext derives a rate-limit identity from the authenticated
// user; only usable behind NeedAuth.
func GetUserIDFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", fmt.Errorf("can't get user id")
	}
	return fmt.Sprintf("user_%d", user.Id), nil
}

// GetIP derives a rate-limit identity from the client address.
func GetIP(r *http.Request) (string, error) {
	return utils.GetIP(r)
}
