package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/response"
)

const rateLimitWindow = time.Minute

// RateLimit caps requests per client IP within a fixed one-minute window
// using redis counters. A nil client or a non-positive limit disables it;
// redis failures let the request through. Admin requests are not limited.
func RateLimit(rdb redis.Cmdable, limit int, prefix string, log *zap.Logger) gin.HandlerFunc {
	return rateLimit(rdb, limit, prefix, log, time.Now)
}

func rateLimit(rdb redis.Cmdable, limit int, prefix string, log *zap.Logger, now func() time.Time) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 || IsAdmin(c) {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		at := now()
		window := at.Truncate(rateLimitWindow)
		key := fmt.Sprintf("formbuilder:rate_limit:%s:%s:%d", prefix, ip, window.Unix())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > int64(limit) {
			retry := int(window.Add(rateLimitWindow).Sub(at).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
