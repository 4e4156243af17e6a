package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redvibe-dev/redvibe/internal/domain"
)

func TestTokenRoundtrip(t *testing.T) {
	service := New("test-secret", time.Hour)
	user := domain.User{Id: 42, Email: "user@example.com", Staff: true}

	tokenStr, err := service.NewToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	token, err := service.DecodeToken(tokenStr)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["uid"])
	assert.Equal(t, "user@example.com", claims["email"])
	assert.Equal(t, true, claims["staff"])
}

func TestDecodeToken(t *testing.T) {
	service := New("test-secret", time.Hour)

	t.Run("Wrong secret is rejected", func(t *testing.T) {
		other := New("other-secret", time.Hour)
		tokenStr, err := other.NewToken(domain.User{Id: 1})
		require.NoError(t, err)

		_, err = service.DecodeToken(tokenStr)
		require.Error(t, err)
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		expired := New("test-secret", -time.Minute)
		tokenStr, err := expired.NewToken(domain.User{Id: 1})
		require.NoError(t, err)

		_, err = service.DecodeToken(tokenStr)
		require.Error(t, err)
	})

	t.Run("Garbage input is rejected", func(t *testing.T) {
		_, err := service.DecodeToken("not.a.token")
		require.Error(t, err)
	})

	t.Run("None algorithm is rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": 1})
		tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.DecodeToken(tokenStr)
		require.Error(t, err)
	})
}
