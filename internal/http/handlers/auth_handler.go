package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/http/dto"
	"github.com/rent-marketplace/backend/internal/middleware"
	"github.com/rent-marketplace/backend/internal/services"
)

type AuthHandler struct {
	walletService *services.WalletService
	log           *zap.Logger
}

func NewAuthHandler(walletService *services.WalletService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{walletService: walletService, log: log}
}

// ProofPayload issues the TON Connect nonce. Public: callers have no identity
// before proving wallet ownership.
func (h *AuthHandler) ProofPayload(c *fiber.Ctx) error {
	payload, err := h.walletService.GeneratePayload(c.Context())
	if err != nil {
		h.log.Error("failed to issue proof payload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.ProofPayloadResponse{Payload: payload})
}

// Connect verifies the TON Connect proof and returns a JWT bound to the
// proven wallet address.
func (h *AuthHandler) Connect(c *fiber.Ctx) error {
	var req services.ConnectWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Address == "" || req.AddressFriendly == "" || req.Proof.Payload == "" {
		return badRequest(c, "address, address_friendly and proof are required")
	}

	result, err := h.walletService.Connect(c.Context(), req)
	if err != nil {
		h.log.Debug("wallet connect failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: result})
}

// Me returns the authenticated user's identity and active wallet.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	me, err := h.walletService.Me(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: me})
}

// Disconnect deactivates one of the caller's connected wallets.
func (h *AuthHandler) Disconnect(c *fiber.Ctx) error {
	var req dto.DisconnectWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		return badRequest(c, "invalid wallet_id")
	}

	if err := h.walletService.Disconnect(c.Context(), middleware.GetUserID(c), walletID); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
