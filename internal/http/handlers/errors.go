package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/rent-marketplace/backend/internal/http/dto"
	"github.com/rent-marketplace/backend/internal/middleware"
	"github.com/rent-marketplace/backend/internal/models"
)

// statusFor maps the ledger's sentinel errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrWindowClosed):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidRange), errors.Is(err, models.ErrInvalidPrice), errors.Is(err, models.ErrInvalidPayment):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	reqID, _ := c.Locals(middleware.CtxRequestID).(string)
	return c.Status(statusFor(err)).JSON(dto.ErrorResponse{Error: err.Error(), RequestID: reqID})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}

func propertyID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
