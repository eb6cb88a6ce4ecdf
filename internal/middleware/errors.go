package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
	"github.com/vizboard/vizboard/api/internal/pkg/metrics"
	"github.com/vizboard/vizboard/api/internal/upload"
)

// ErrorHandler is the application's single failure sink. Every error a
// handler or middleware returns is classified into an envelope, counted,
// reported to Sentry when it is a server error, and written as JSON.
func ErrorHandler(classifier *apperrors.Classifier, logger *zap.Logger, sentryEnabled bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		err = fromFiber(err)
		env := classifier.Classify(err)

		metrics.RecordFailure(string(env.Rule), env.StatusCode)

		if sentryEnabled && env.StatusCode >= http.StatusInternalServerError {
			CaptureError(c, err)
		}

		logger.Debug("failure classified",
			zap.String("request_id", GetRequestID(c)),
			zap.String("rule", string(env.Rule)),
			zap.Int("status", env.StatusCode),
		)

		return c.Status(env.StatusCode).JSON(env)
	}
}

// fromFiber converts errors raised by Fiber itself into failure variants.
// An oversized body is an upload failure; anything else keeps Fiber's status.
func fromFiber(err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return err
	}
	if fe.Code == fiber.StatusRequestEntityTooLarge {
		return apperrors.Upload(upload.MsgFileTooLarge).WithError(err)
	}
	return apperrors.Declared(fe.Code, fe.Message)
}

// handleChainError runs the application error handler for a failure
// returned further down the chain, so the response status is final before
// an outer middleware inspects it.
func handleChainError(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}
