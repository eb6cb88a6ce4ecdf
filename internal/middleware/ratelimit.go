package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	// Max requests per window
	Max int
	// Window duration
	Window time.Duration
	// KeyGenerator names the bucket a request counts against
	KeyGenerator func(*fiber.Ctx) string
}

// DefaultRateLimitConfig limits each user, or each IP when unauthenticated
func DefaultRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{
		Max:    perMinute,
		Window: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID := GetUserID(c); userID != "" {
				return "user:" + userID
			}
			return "ip:" + c.IP()
		},
	}
}

// RateLimit applies a sliding window limit kept in a Redis sorted set.
// Requests are allowed when Redis is unavailable.
func RateLimit(client redis.UniversalClient, logger *zap.Logger, config RateLimitConfig) fiber.Handler {
	window := int64(config.Window / time.Millisecond)

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := fmt.Sprintf("ratelimit:%s", config.KeyGenerator(c))
		now := time.Now().UnixMilli()
		reset := strconv.FormatInt((now+window)/1000, 10)

		pipe := client.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now-window, 10))
		count := pipe.ZCard(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(config.Max))
		c.Set("X-RateLimit-Reset", reset)

		if count.Val() >= int64(config.Max) {
			c.Set("X-RateLimit-Remaining", "0")
			c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(int64(config.Window.Seconds()), 10))
			return apperrors.RateLimited()
		}

		pipe = client.TxPipeline()
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: uuid.NewString()})
		pipe.PExpire(ctx, key, config.Window)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
		}

		c.Set("X-RateLimit-Remaining", strconv.FormatInt(int64(config.Max)-count.Val()-1, 10))
		return c.Next()
	}
}
