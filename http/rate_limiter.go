package http

import (
	"sync"
	"time"
)

const (
	defaultIdleThreshold   = time.Hour
	defaultCleanupInterval = 30 * time.Minute
)

type clientBucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter hands each client a bucket of capacity requests that is
// topped up once per refill window. Buckets untouched for idleThreshold are
// swept by a background loop.
type RateLimiter struct {
	mu              sync.Mutex
	capacity        int
	refillDur       time.Duration
	idleThreshold   time.Duration
	cleanupInterval time.Duration
	clients         map[string]*clientBucket
	stopCleanup     chan struct{}
	stopOnce        sync.Once
	now             func() time.Time
}

type RateLimiterOption func(*RateLimiter)

// WithCleanup sets how long an idle bucket is kept and how often idle
// buckets are swept. Non-positive values keep the defaults.
func WithCleanup(idleThreshold, interval time.Duration) RateLimiterOption {
	return func(r *RateLimiter) {
		if idleThreshold > 0 {
			r.idleThreshold = idleThreshold
		}
		if interval > 0 {
			r.cleanupInterval = interval
		}
	}
}

// NewRateLimiter builds a per-client token bucket that is refilled to
// capacity every refillDur. Call Stop to end the background cleanup.
func NewRateLimiter(capacity int, refillDur time.Duration, opts ...RateLimiterOption) *RateLimiter {
	if capacity <= 0 {
		capacity = 1
	}
	rl := &RateLimiter{
		capacity:        capacity,
		refillDur:       refillDur,
		idleThreshold:   defaultIdleThreshold,
		cleanupInterval: defaultCleanupInterval,
		clients:         make(map[string]*clientBucket),
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(r.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweepIdle()
		case <-r.stopCleanup:
			return
		}
	}
}

// sweepIdle drops buckets whose last refill is older than idleThreshold.
func (r *RateLimiter) sweepIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleThreshold)
	removed := 0
	for client, bucket := range r.clients {
		if bucket.lastRefill.Before(cutoff) {
			delete(r.clients, client)
			removed++
		}
	}
	return removed
}

func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow spends one token from the client's bucket and reports whether the
// request may proceed.
func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, ok := r.clients[client]
	if !ok {
		bucket = &clientBucket{tokens: r.capacity, lastRefill: now}
		r.clients[client] = bucket
	} else if now.Sub(bucket.lastRefill) >= r.refillDur {
		bucket.tokens = r.capacity
		bucket.lastRefill = now
	}

	if bucket.tokens == 0 {
		return false
	}
	bucket.tokens--
	return true
}
