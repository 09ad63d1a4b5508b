package middleware

import (
	"net/http"
	"sync"

	"github.com/NEhIL06/Ecosap/internal/auth"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// PerUserRateLimit bounds how often a single user can hit the wrapped
// routes. Keyed by the resolved user id, falling back to the client IP
// before auth has run. A non-positive perMinute disables the limiter.
func PerUserRateLimit(perMinute int, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limit := rate.Limit(float64(perMinute) / 60.0)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(limit, burst)
			limiters[key] = l
		}
		return l
	}

	return func(c *gin.Context) {
		key := auth.UserDBID(c)
		if key == "" {
			key = c.ClientIP()
		}

		if !limiterFor(key).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
