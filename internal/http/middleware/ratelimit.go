package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitors struct {
	mu sync.Mutex
	m  map[string]*visitor
}

// sweep drops entries idle for longer than expiry until ctx is done.
func (v *visitors) sweep(ctx context.Context, expiry, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.mu.Lock()
			for ip, e := range v.m {
				if time.Since(e.lastSeen) > expiry {
					delete(v.m, ip)
				}
			}
			v.mu.Unlock()
		}
	}
}

// RateLimiter limits each client IP to maxRequests per window. Idle
// entries are swept every minute until ctx is cancelled.
func RateLimiter(ctx context.Context, maxRequests int, window time.Duration) gin.HandlerFunc {
	store := &visitors{m: make(map[string]*visitor)}

	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	go store.sweep(ctx, expiry, time.Minute)

	r := rate.Every(window / time.Duration(maxRequests))

	return func(c *gin.Context) {
		key := c.ClientIP()

		store.mu.Lock()
		v, exists := store.m[key]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(r, maxRequests)}
			store.m[key] = v
		}
		v.lastSeen = time.Now()
		store.mu.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
