// Package ratelimit throttles clients with one token bucket per key.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter hands out an independent limiter per key and forgets keys
// that have been idle longer than ttl.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

func New(rps float64, burst int) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      10 * time.Minute,
	}
}

// Allow reports whether a request for key may proceed now.
func (k *KeyedLimiter) Allow(key string) bool {
	return k.get(key, time.Now()).Allow()
}

func (k *KeyedLimiter) get(key string, now time.Time) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = e
		k.sweep(now)
	}
	e.lastSeen = now
	return e.limiter
}

// sweep drops idle keys. Called with mu held, only when a key is added.
func (k *KeyedLimiter) sweep(now time.Time) {
	for key, e := range k.limiters {
		if !e.lastSeen.IsZero() && now.Sub(e.lastSeen) > k.ttl {
			delete(k.limiters, key)
		}
	}
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}

// Middleware rejects requests over the client IP's budget with 429.
// A nil limiter lets everything through.
func Middleware(k *KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if k == nil {
			c.Next()
			return
		}
		if !k.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{"message": "Too many requests"}})
			return
		}
		c.Next()
	}
}
