package rest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/whybudget/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{common.ErrorUnauthenticated, fiber.StatusUnauthorized},
		{fmt.Errorf("x: %w", common.ErrorInvalidInput), fiber.StatusBadRequest},
		{common.ErrorNotFound, fiber.StatusNotFound},
		{common.ErrNoActiveChallenge, fiber.StatusBadRequest},
		{common.ErrChallengeExpired, fiber.StatusBadRequest},
		{common.ErrInvalidCode, fiber.StatusBadRequest},
		{fmt.Errorf("%w: %w", common.ErrDeliveryFailed, errors.New("smtp")), fiber.StatusInternalServerError},
		{fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusFor_HidesInternalDetails(t *testing.T) {
	_, msg := statusFor(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", msg)
}
