package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/payollar/payollar/pkg/domain"
	"github.com/payollar/payollar/pkg/domain/payout"
	"github.com/payollar/payollar/pkg/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{payout.ErrPayoutIDRequired, fiber.StatusBadRequest},
		{domain.ErrUnauthorized, fiber.StatusForbidden},
		{user.ErrUserUnauthorized, fiber.StatusUnauthorized},
		{payout.ErrPayoutNotEligible, fiber.StatusNotFound},
		{payout.ErrInsufficientBalance, fiber.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %w", payout.ErrApprovalFailed, errors.New("conn reset")), fiber.StatusInternalServerError},
		{domain.ErrAlreadyExists, fiber.StatusConflict},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorToStatusCode(tc.err), tc.err.Error())
	}
}

func TestProblemDetailsJSON(t *testing.T) {
	app := fiber.New()
	app.Get("/err", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Payout not approved", payout.ErrInsufficientBalance)
	})
	app.Get("/override", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Too Many Requests", nil, "rate limit exceeded", fiber.StatusTooManyRequests)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/err", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	var pd ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, "Doctor doesn't have enough credits for this payout", pd.Detail)
	assert.Equal(t, "/err", pd.Instance)
	assert.Equal(t, fiber.StatusUnprocessableEntity, pd.Status)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/override", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

type bindInput struct {
	PayoutID string `json:"payoutId" form:"payoutId" validate:"required"`
}

func TestBindAndValidate(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[bindInput](c)
		if input == nil {
			return err
		}
		return c.SendString(input.PayoutID)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(`{"payoutId":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(`{"payoutId":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
