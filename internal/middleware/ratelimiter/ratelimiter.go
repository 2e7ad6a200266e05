package ratelimiter

import (
	"sync"
	"time"
)

// bucket implements a token bucket for a single identity.
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	identity   string
	parent     *IdentityLimiter
}

// IdentityLimiter rate-limits per identity (IP, email, "global"). Idle
// buckets expire after expirationTime so the map does not grow unbounded.
type IdentityLimiter struct {
	buckets        map[string]*bucket
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// New creates an IdentityLimiter refilling rate tokens per second up to capacity.
func New(rate float64, capacity float64, expirationTime time.Duration) *IdentityLimiter {
	return &IdentityLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

// Common shapes used by the router.
func Rps100() *IdentityLimiter { return New(100, 100, 1*time.Hour) }
func PerHour(n float64) *IdentityLimiter {
	return New(n/3600.0, n, 24*time.Hour)
}

func (il *IdentityLimiter) cleanup(identity string) {
	il.mu.Lock()
	delete(il.buckets, identity)
	il.mu.Unlock()
}

func (b *bucket) resetTimer() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.parent.expirationTime, func() {
		b.parent.cleanup(b.identity)
	})
}

func (il *IdentityLimiter) getBucket(identity string) *bucket {
	il.mu.RLock()
	b, exists := il.buckets[identity]
	il.mu.RUnlock()

	if exists {
		b.resetTimer()
		return b
	}

	il.mu.Lock()
	defer il.mu.Unlock()

	// Double-check after acquiring write lock
	b, exists = il.buckets[identity]
	if exists {
		b.resetTimer()
		return b
	}

	b = &bucket{
		tokens:     il.capacity,
		capacity:   il.capacity,
		rate:       il.rate,
		lastRefill: time.Now(),
		identity:   identity,
		parent:     il,
	}
	il.buckets[identity] = b
	b.resetTimer()

	return b
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()

	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}

	return false
}

// Allow checks if a request should be allowed for the given identity.
func (il *IdentityLimiter) Allow(identity string) bool {
	return il.getBucket(identity).allow()
}

// Stop cleans up all timers.
func (il *IdentityLimiter) Stop() {
	il.mu.Lock()
	defer il.mu.Unlock()

	for _, b := range il.buckets {
		if b.timer != nil {
			b.timer.Stop()
		}
	}
}
