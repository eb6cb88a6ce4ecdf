package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// Recover turns a panic into an internal failure carrying the panicking
// stack and returns it to the error handler.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			var panicErr error
			switch v := r.(type) {
			case error:
				panicErr = v
			default:
				panicErr = fmt.Errorf("%v", v)
			}

			logger.Error("panic recovered",
				zap.Error(panicErr),
				zap.String("path", utils.CopyString(c.Path())),
				zap.String("method", utils.CopyString(c.Method())),
				zap.String("request_id", GetRequestID(c)),
				zap.ByteString("stack", debug.Stack()),
			)

			err = apperrors.Internal(panicErr.Error()).WithError(panicErr)
		}()

		return c.Next()
	}
}
