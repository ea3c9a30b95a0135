package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/orders"
	"github.com/example/curemart/internal/otp"
	"github.com/example/curemart/internal/payments"
	"github.com/example/curemart/internal/storage"
)

func newErrorApp(t *testing.T, production bool) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(zap.NewNop().Sugar(), production),
	})
	return app
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	app := newErrorApp(t, false)

	cases := []struct {
		path string
		err  error
		want int
	}{
		{"/not-found", storage.ErrNotFound, fiber.StatusNotFound},
		{"/duplicate", storage.ErrDuplicate, fiber.StatusBadRequest},
		{"/forbidden", orders.ErrNotAuthorized, fiber.StatusForbidden},
		{"/transition", fmt.Errorf("%w: delivered -> confirmed", orders.ErrInvalidTransition), fiber.StatusBadRequest},
		{"/not-cancellable", orders.ErrNotCancellable, fiber.StatusBadRequest},
		{"/out-of-stock", orders.ErrInsufficientStock, fiber.StatusBadRequest},
		{"/otp-expired", otp.ErrExpired, fiber.StatusBadRequest},
		{"/bad-signature", payments.ErrSignatureMismatch, fiber.StatusBadRequest},
		{"/lock-timeout", fmt.Errorf("%w on orders.json", jsondb.ErrLockTimeout), fiber.StatusInternalServerError},
		{"/unknown", fmt.Errorf("disk on fire"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		err := tc.err
		app.Get(tc.path, func(c *fiber.Ctx) error { return err })
	}

	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, resp.StatusCode, tc.path)

		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.False(t, body.Success, tc.path)
		assert.NotEmpty(t, body.Message, tc.path)
	}
}

func TestErrorHandlerMasksInternalDetailInProduction(t *testing.T) {
	app := newErrorApp(t, true)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fmt.Errorf("%w on orders.json", jsondb.ErrLockTimeout)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "internal server error")
	assert.NotContains(t, string(raw), "orders.json")
}

func TestErrorHandlerKeepsFiberErrorStatus(t *testing.T) {
	app := newErrorApp(t, false)
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
