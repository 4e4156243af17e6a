// Package ratelimiter implements a per-identity token bucket.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
	timer      *time.Timer
	identity   string
	parent     *Limiter
	mu         sync.Mutex
}

// Limiter manages one token bucket per identity (user id, IP, ...).
// Idle buckets expire so the map doesn't grow without bound.
type Limiter struct {
	buckets        map[string]*bucket
	mu             sync.RWMutex
	rate           float64 // tokens per second
	capacity       float64
	expirationTime time.Duration
}

func New(rate, capacity float64, expirationTime time.Duration) *Limiter {
	return &Limiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

// Common presets.
func OnceInSecond() *Limiter { return New(1, 1, time.Hour) }
func OnceInMinute() *Limiter { return New(1.0/60, 1, time.Hour) }
func Rps10() *Limiter        { return New(10, 10, time.Hour) }
func Rps100() *Limiter       { return New(100, 100, time.Hour) }

// Allow reports whether the identity may perform another request now.
func (l *Limiter) Allow(identity string) bool {
	return l.getBucket(identity).allow(l.rate, l.capacity)
}

func (l *Limiter) getBucket(identity string) *bucket {
	l.mu.RLock()
	b, exists := l.buckets[identity]
	l.mu.RUnlock()

	if exists {
		b.resetTimer()
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring the write lock
	if b, exists = l.buckets[identity]; exists {
		b.resetTimer()
		return b
	}

	b = &bucket{
		tokens:     l.capacity,
		lastRefill: time.Now(),
		identity:   identity,
		parent:     l,
	}
	l.buckets[identity] = b
	b.resetTimer()
	return b
}

func (l *Limiter) cleanup(identity string) {
	l.mu.Lock()
	delete(l.buckets, identity)
	l.mu.Unlock()
}

// resetTimer postpones the bucket's expiry. Callers may hold only the map's
// read lock, so the timer field is guarded by the bucket's own mutex.
func (b *bucket) resetTimer() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.parent.expirationTime, func() {
		b.parent.cleanup(b.identity)
	})
}

func (b *bucket) allow(rate, capacity float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * rate
	if b.tokens > capacity {
		b.tokens = capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}
