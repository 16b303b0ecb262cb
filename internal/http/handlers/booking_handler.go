package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/http/dto"
	"github.com/rent-marketplace/backend/internal/middleware"
	"github.com/rent-marketplace/backend/internal/services"
	"github.com/rent-marketplace/backend/internal/ton"
)

type BookingHandler struct {
	bookingService *services.BookingService
	log            *zap.Logger
}

func NewBookingHandler(bookingService *services.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, log: log}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	caller := middleware.GetWalletAddress(c)
	if err := h.bookingService.CreateBooking(c.Context(), caller, id, req.StartDate, req.EndDate); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true})
}

func (h *BookingHandler) Confirm(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	var req dto.ConfirmBookingRequest
	if err := c.BodyParser(&req); err != nil || req.PriceTON == "" {
		return badRequest(c, "price_ton is required")
	}
	priceNano, err := ton.ParseTONToNano(req.PriceTON)
	if err != nil {
		return badRequest(c, "invalid price_ton: "+err.Error())
	}

	caller := middleware.GetWalletAddress(c)
	escrow, err := h.bookingService.ConfirmBooking(c.Context(), caller, id, priceNano)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: escrow})
}

// Pay drives the confirmed -> paid transition. The on-chain indexer is the
// normal caller; the endpoint serves test harnesses and manual settlement.
func (h *BookingHandler) Pay(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	var req dto.PayBookingRequest
	if err := c.BodyParser(&req); err != nil || req.AmountTON == "" {
		return badRequest(c, "amount_ton is required")
	}
	amountNano, err := ton.ParseTONToNano(req.AmountTON)
	if err != nil {
		return badRequest(c, "invalid amount_ton: "+err.Error())
	}

	payer := middleware.GetWalletAddress(c)
	if err := h.bookingService.PayBooking(c.Context(), payer, id, amountNano, req.TxRef); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *BookingHandler) Reject(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	caller := middleware.GetWalletAddress(c)
	if err := h.bookingService.RejectBooking(c.Context(), caller, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	caller := middleware.GetWalletAddress(c)
	if err := h.bookingService.CancelBooking(c.Context(), caller, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	booking, err := h.bookingService.GetBooking(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: booking})
}

func (h *BookingHandler) GetPaymentInfo(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	escrow, err := h.bookingService.GetPaymentInfo(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.PaymentInfoResponse{
		PropertyID:    id,
		WalletAddress: escrow.DepositAddress,
		Memo:          escrow.DepositMemo,
		AmountTON:     ton.FormatNanoAsTON(escrow.ExpectedNano),
		Status:        escrow.Status,
	})
}

func (h *BookingHandler) GetEvents(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return badRequest(c, "invalid property id")
	}

	events, err := h.bookingService.GetPropertyEvents(c.Context(), id)
	if err != nil {
		h.log.Error("get property events failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: events})
}
