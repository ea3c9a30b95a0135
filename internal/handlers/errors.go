package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/orders"
	"github.com/example/curemart/internal/otp"
	"github.com/example/curemart/internal/payments"
	"github.com/example/curemart/internal/storage"
)

// NewErrorHandler builds the app-wide fiber error handler. Domain sentinel
// errors map to stable HTTP statuses; anything unrecognized becomes a 500
// with the detail kept out of the response in production.
func NewErrorHandler(log *zap.SugaredLogger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, storage.ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, orders.ErrNotAuthorized):
			code = fiber.StatusForbidden
		case errors.Is(err, storage.ErrDuplicate),
			errors.Is(err, orders.ErrInvalidTransition),
			errors.Is(err, orders.ErrNotCancellable),
			errors.Is(err, orders.ErrAgentInactive),
			errors.Is(err, orders.ErrEmptyOrder),
			errors.Is(err, orders.ErrProductUnavailable),
			errors.Is(err, orders.ErrInsufficientStock),
			errors.Is(err, orders.ErrCouponInvalid):
			code = fiber.StatusBadRequest
		case errors.Is(err, otp.ErrExpired),
			errors.Is(err, otp.ErrInvalidCode),
			errors.Is(err, otp.ErrAttemptsExhausted):
			code = fiber.StatusBadRequest
		case errors.Is(err, payments.ErrSignatureMismatch):
			code = fiber.StatusBadRequest
		case errors.Is(err, jsondb.ErrLockTimeout):
			// Storage contention is a server fault; the wrapped error names
			// the contended file for the log line below.
			code = fiber.StatusInternalServerError
		}

		if code == fiber.StatusInternalServerError {
			log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
			if production {
				message = "internal server error"
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
