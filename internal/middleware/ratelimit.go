package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/medtrack-api/pkg/httputil"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	// TTL evicts limiters of clients that went quiet.
	TTL time.Duration
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	cfg      RateLimiterConfig
	limiters *cache.Cache
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return &RateLimiter{
		cfg:      cfg,
		limiters: cache.New(cfg.TTL, cfg.TTL),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if v, found := rl.limiters.Get(key); found {
		rl.limiters.Set(key, v, cache.DefaultExpiration)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rl.cfg.Rate, rl.cfg.Burst)
	// lost race: use whichever limiter got stored first
	if err := rl.limiters.Add(key, l, cache.DefaultExpiration); err != nil {
		if v, found := rl.limiters.Get(key); found {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			httputil.RespondWithStatus(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
