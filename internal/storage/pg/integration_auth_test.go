package pg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redvibe-dev/redvibe/internal/domain"
	internal_errors "github.com/redvibe-dev/redvibe/internal/errors"
)

func TestSaveUser(t *testing.T) {
	user := mustCreateUser(t)
	assert.Greater(t, user.Id, int64(0))

	t.Run("Duplicate email returns the signup message", func(t *testing.T) {
		_, err := storage.SaveUser(domain.User{Name: "other", Email: user.Email, PassHash: "hash"})

		require.Error(t, err)
		e, ok := err.(*internal_errors.ErrorWithStatusCode)
		require.True(t, ok)
		assert.Equal(t, 400, e.StatusCode)
		assert.Equal(t, "Email already registered.", e.Message)
	})

	t.Run("New users start active with onboarding pending", func(t *testing.T) {
		loaded, err := storage.UserById(user.Id)
		require.NoError(t, err)
		assert.True(t, loaded.Active)
		assert.True(t, loaded.OnboardingPending)
		assert.False(t, loaded.Staff)
	})
}

func TestUserByEmail(t *testing.T) {
	user := mustCreateUser(t)

	loaded, err := storage.UserByEmail(user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.Id, loaded.Id)
	assert.Equal(t, "hash", loaded.PassHash)

	_, err = storage.UserByEmail("nonexistent@example.com")
	require.Error(t, err)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestClearOnboardingPending(t *testing.T) {
	ctx := context.Background()
	user := mustCreateUser(t)

	require.NoError(t, storage.ClearOnboardingPending(ctx, user.Id))

	loaded, err := storage.UserById(user.Id)
	require.NoError(t, err)
	assert.False(t, loaded.OnboardingPending)

	// Ack is idempotent
	require.NoError(t, storage.ClearOnboardingPending(ctx, user.Id))

	err = storage.ClearOnboardingPending(ctx, 999999)
	require.Error(t, err)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestRecentlySuspendedUsers(t *testing.T) {
	ctx := context.Background()
	admin := mustCreateUser(t)
	suspended := mustCreateUser(t)
	active := mustCreateUser(t)

	require.NoError(t, storage.SuspendUserWithLog(ctx, admin.Id, suspended.Id, "Suspended user "+suspended.Email))

	ids, err := storage.RecentlySuspendedUsers(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Contains(t, ids, suspended.Id)
	assert.NotContains(t, ids, active.Id)

	// A window starting after the suspension excludes it
	ids, err = storage.RecentlySuspendedUsers(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.NotContains(t, ids, suspended.Id)
}
