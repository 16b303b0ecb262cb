package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/http/dto"
	"github.com/rent-marketplace/backend/internal/middleware"
	"github.com/rent-marketplace/backend/internal/repositories"
	"github.com/rent-marketplace/backend/internal/services"
)

type PropertyHandler struct {
	bookingService *services.BookingService
	log            *zap.Logger
}

func NewPropertyHandler(bookingService *services.BookingService, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{bookingService: bookingService, log: log}
}

func (h *PropertyHandler) Mint(c *fiber.Ctx) error {
	var req dto.MintPropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	owner := middleware.GetWalletAddress(c)
	property, err := h.bookingService.SafeMint(c.Context(), owner, req.MetadataURI)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: property})
}

func (h *PropertyHandler) List(c *fiber.Ctx) error {
	filter := repositories.PropertyFilter{Limit: 20}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	if v := c.Query("owner"); v != "" {
		filter.Owner = &v
	}
	if v := c.Query("booking_allowed"); v != "" {
		allowed := v == "true"
		filter.BookingAllowed = &allowed
	}

	properties, err := h.bookingService.ListProperties(c.Context(), filter)
	if err != nil {
		h.log.Error("list properties failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: properties})
}

func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	property, err := h.bookingService.GetProperty(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: property})
}

func (h *PropertyHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	caller := middleware.GetWalletAddress(c)
	allowed, err := h.bookingService.ToggleStatus(c.Context(), caller, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ToggleStatusResponse{
		PropertyID:     id,
		BookingAllowed: allowed,
	}})
}

func (h *PropertyHandler) Reserve(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	var req dto.ReservePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	caller := middleware.GetWalletAddress(c)
	if err := h.bookingService.ReserveProperty(c.Context(), caller, id, req.StartDate, req.EndDate); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *PropertyHandler) SetWithdrawWallet(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	var req dto.SetWithdrawWalletRequest
	if err := c.BodyParser(&req); err != nil || req.WalletAddress == "" {
		return badRequest(c, "wallet_address is required")
	}

	userID := middleware.GetUserID(c)
	caller := middleware.GetWalletAddress(c)
	if err := h.bookingService.SetWithdrawWallet(c.Context(), userID, caller, id, req.WalletAddress); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
