package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	appErr := NewInternalError(inner)

	assert.ErrorIs(t, appErr, inner)
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(NewDuplicateError()))
	assert.False(t, IsDuplicate(NewValidationError("nope")))
	assert.False(t, IsDuplicate(errors.New("plain")))
}

func TestRespondWithErrorSuppressesDetailInProduction(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")

	respond := func(t *testing.T) ErrorResponse {
		t.Helper()
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(inner))
		})
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var out ErrorResponse
		require.NoError(t, json.Unmarshal(body, &out))
		return out
	}

	t.Run("development exposes detail", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		out := respond(t)
		assert.Equal(t, "Internal server error", out.Error)
		assert.Equal(t, "INTERNAL_ERROR", out.Code)
		assert.Contains(t, out.Details, "connection refused")
	})

	t.Run("production suppresses detail", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		out := respond(t)
		assert.Equal(t, "Internal server error", out.Error)
		assert.Empty(t, out.Details)
	})
}
