package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/paydocs/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	generateRate  = 0.5
	generateBurst = 10
)

// GenerationLimiter throttles the expensive generation endpoints per
// user. Without redis it is a no-op so local setups keep working.
type GenerationLimiter struct {
	log     *zap.Logger
	bucket  *TokenBucket
	metrics *metrics.Metrics
}

type GenerationLimiterParam struct {
	fx.In

	Log     *zap.Logger
	Bucket  *TokenBucket `optional:"true"`
	Metrics *metrics.Metrics
}

func NewGenerationLimiter(p GenerationLimiterParam) *GenerationLimiter {
	return &GenerationLimiter{
		log:     p.Log.Named("ratelimit"),
		bucket:  p.Bucket,
		metrics: p.Metrics,
	}
}

func (l *GenerationLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.bucket == nil {
			c.Next()
			return
		}

		key := c.GetString("user_id")
		if key == "" {
			key = c.ClientIP()
		}

		res, err := l.bucket.Allow(c.Request.Context(), "ratelimit:generate:"+key, generateRate, generateBurst)
		if err != nil {
			// Redis trouble must not take generation down.
			l.log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !res.Allowed {
			l.metrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath())
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}
		c.Next()
	}
}
