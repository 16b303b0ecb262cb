package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/rent-marketplace/backend/internal/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", models.ErrNotFound, fiber.StatusNotFound},
		{"unauthorized", models.ErrUnauthorized, fiber.StatusForbidden},
		{"invalid state", models.ErrInvalidState, fiber.StatusConflict},
		{"window closed", models.ErrWindowClosed, fiber.StatusConflict},
		{"invalid range", models.ErrInvalidRange, fiber.StatusBadRequest},
		{"invalid price", models.ErrInvalidPrice, fiber.StatusBadRequest},
		{"invalid payment", models.ErrInvalidPayment, fiber.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("confirm as visitor: %w", models.ErrUnauthorized), fiber.StatusForbidden},
		{"unknown error", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
