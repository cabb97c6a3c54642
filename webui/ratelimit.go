package webui

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rawprouk/scrape/config"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused per-client limiter is kept.
const limiterIdleTTL = time.Hour

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// scrapeRateLimit returns per-client token-bucket middleware that limits how
// often a scrape can be started. A zero interval disables it.
func scrapeRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.Interval <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var mu sync.Mutex
	limiters := make(map[string]*limiterEntry)

	getLimiter := func(identity string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		for id, entry := range limiters {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(limiters, id)
			}
		}

		entry, ok := limiters[identity]
		if !ok {
			entry = &limiterEntry{
				limiter: rate.NewLimiter(rate.Every(cfg.Interval), cfg.Burst),
			}
			limiters[identity] = entry
		}
		entry.lastSeen = now
		return entry.limiter
	}

	return func(c *gin.Context) {
		if !getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				errorResponse("rate_limited", "a scrape was started recently, please wait before starting another"))
			return
		}

		c.Next()
	}
}
