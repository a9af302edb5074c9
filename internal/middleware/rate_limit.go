package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "storytracker/internal/errors"
)

// RateLimit allows each client IP at most limit requests per window.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	type bucket struct {
		count int
		start time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(c *gin.Context) {
		now := time.Now()
		key := c.ClientIP()

		mu.Lock()
		b, ok := buckets[key]
		if !ok || now.Sub(b.start) > window {
			b = &bucket{start: now}
			buckets[key] = b
		}
		b.count++
		count := b.count
		mu.Unlock()

		if count > limit {
			apierrors.TooManyRequests(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
