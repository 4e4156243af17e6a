// Package suspension keeps an in-memory set of recently suspended users so
// the auth middleware can reject still-valid JWTs without a database hit per
// request. Only users suspended within the token TTL matter: older
// suspensions can't have live tokens anyway.
package suspension

import (
	"context"
	"sync"
	"time"

	"github.com/redvibe-dev/redvibe/internal/domain"
	"github.com/redvibe-dev/redvibe/internal/logger"
)

// CacheStorage is the minimal read surface the cache needs.
type CacheStorage interface {
	RecentlySuspendedUsers(since time.Time) ([]domain.UserId, error)
}

type Cache struct {
	storage        CacheStorage
	cache          map[domain.UserId]bool
	mu             sync.RWMutex
	jwtTTL         time.Duration
	lastUpdateTime time.Time
}

func NewCache(storage CacheStorage, jwtTTL time.Duration) *Cache {
	return &Cache{
		storage: storage,
		cache:   make(map[domain.UserId]bool),
		jwtTTL:  jwtTTL,
	}
}

// Update rebuilds the cache from users suspended within (JWT TTL + 10%
// buffer); the buffer absorbs clock skew between app and database.
func (c *Cache) Update() error {
	since := time.Now().Add(-time.Duration(float64(c.jwtTTL) * 1.1))

	userIds, err := c.storage.RecentlySuspendedUsers(since)
	if err != nil {
		return err
	}

	newCache := make(map[domain.UserId]bool, len(userIds))
	for _, userId := range userIds {
		newCache[userId] = true
	}

	c.mu.Lock()
	c.cache = newCache
	c.lastUpdateTime = time.Now()
	c.mu.Unlock()

	logger.Log.Info("suspension cache updated",
		"component", "suspension_cache",
		"entries", len(newCache),
		"since", since.Format(time.RFC3339))
	return nil
}

// MarkSuspended adds a user immediately, so the suspension takes effect
// before the next periodic refresh.
func (c *Cache) MarkSuspended(userId domain.UserId) {
	c.mu.Lock()
	c.cache[userId] = true
	c.mu.Unlock()
}

func (c *Cache) IsSuspended(userId domain.UserId) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache[userId]
}

// StartBackgroundUpdate refreshes the cache on the given interval until ctx
// is cancelled.
func (c *Cache) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started suspension cache background updates",
		"component", "suspension_cache",
		"interval", interval,
		"jwt_ttl", c.jwtTTL)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.Update(); err != nil {
					logger.Log.Error("suspension cache update failed",
						"component", "suspension_cache",
						"error", err)
				}
			case <-ctx.Done():
				logger.Log.Info("suspension cache shutting down gracefully",
					"component", "suspension_cache")
				return
			}
		}
	}()
}
