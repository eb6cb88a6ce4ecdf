package middleware

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const localSentryHub = "sentry_hub"

// SentryConfig holds Sentry-specific configuration
type SentryConfig struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
}

// InitSentry initializes the Sentry SDK. An empty DSN leaves it disabled.
func InitSentry(config SentryConfig) error {
	if config.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.DSN,
		Environment:      config.Environment,
		Release:          config.Release,
		TracesSampleRate: config.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	return nil
}

// FlushSentry flushes any buffered events to Sentry
func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}

// SentryHub attaches a per-request Sentry hub to the context
func SentryHub() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localSentryHub, requestHub(c))
		return c.Next()
	}
}

// CaptureError reports an error to Sentry from a Fiber context
func CaptureError(c *fiber.Ctx, err error) {
	hub, ok := c.Locals(localSentryHub).(*sentry.Hub)
	if !ok || hub == nil {
		hub = requestHub(c)
	}
	hub.CaptureException(err)
}

func requestHub(c *fiber.Ctx) *sentry.Hub {
	hub := sentry.CurrentHub().Clone()

	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		k := string(key)
		if k != fiber.HeaderAuthorization && k != fiber.HeaderCookie {
			headers[k] = string(value)
		}
	})

	hub.Scope().SetContext("Request", map[string]interface{}{
		"url":          utils.CopyString(c.OriginalURL()),
		"method":       utils.CopyString(c.Method()),
		"headers":      headers,
		"query_string": string(c.Request().URI().QueryString()),
		"remote_addr":  c.IP(),
	})
	hub.Scope().SetTag("request_id", GetRequestID(c))
	if userID := GetUserID(c); userID != "" {
		hub.Scope().SetUser(sentry.User{ID: userID})
	}

	return hub
}
