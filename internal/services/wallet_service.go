package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/auth"
	"github.com/rent-marketplace/backend/internal/config"
	"github.com/rent-marketplace/backend/internal/models"
	"github.com/rent-marketplace/backend/internal/repositories"
	"github.com/rent-marketplace/backend/internal/ton"
)

// WalletService binds TON wallets to users. Proving ownership of a wallet via
// TON Connect is the only way to authenticate: the verified friendly address
// becomes the caller identity the booking ledger authorizes against.
type WalletService struct {
	walletRepo *repositories.WalletRepo
	userRepo   *repositories.UserRepo
	auditRepo  *repositories.AuditRepo
	cfg        *config.Config
	log        *zap.Logger
}

func NewWalletService(
	walletRepo *repositories.WalletRepo,
	userRepo *repositories.UserRepo,
	auditRepo *repositories.AuditRepo,
	cfg *config.Config,
	log *zap.Logger,
) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		cfg:        cfg,
		log:        log,
	}
}

// GeneratePayload issues the nonce the client passes to tonconnect.
func (s *WalletService) GeneratePayload(ctx context.Context) (string, error) {
	p, err := s.walletRepo.CreateProofPayload(ctx, s.cfg.ProofPayloadTTL)
	if err != nil {
		return "", fmt.Errorf("failed to create proof payload: %w", err)
	}
	return p.Payload, nil
}

type ConnectWalletRequest struct {
	Address         string    `json:"address"`          // raw: "0:abc..."
	AddressFriendly string    `json:"address_friendly"` // "EQA..." / "UQA..."
	Network         string    `json:"network"`          // "mainnet" / "testnet"
	PublicKey       string    `json:"public_key"`       // hex
	Proof           ton.Proof `json:"proof"`
}

type ConnectResult struct {
	User   *models.User       `json:"user"`
	Wallet *models.UserWallet `json:"wallet"`
	Token  string             `json:"token"`
}

// Connect verifies a TON Connect proof, upserts the user keyed by the
// friendly address, stores the wallet binding and issues a JWT.
func (s *WalletService) Connect(ctx context.Context, req ConnectWalletRequest) (*ConnectResult, error) {
	// Single-use nonce, replay protection.
	if _, err := s.walletRepo.ConsumeProofPayload(ctx, req.Proof.Payload); err != nil {
		return nil, fmt.Errorf("invalid or expired proof payload: %w", models.ErrUnauthorized)
	}

	workchain, addrHash, err := ton.ParseRawAddress(req.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid TON address: %w", err)
	}

	if req.Network != "" && req.Network != s.cfg.TONNetwork {
		return nil, fmt.Errorf("network mismatch: expected %s, got %s", s.cfg.TONNetwork, req.Network)
	}

	if err := ton.VerifyProof(req.PublicKey, addrHash, workchain, req.Proof, s.cfg.TONProofAllowedDomains); err != nil {
		return nil, fmt.Errorf("proof verification failed: %w", models.ErrUnauthorized)
	}

	user, err := s.userRepo.UpsertByWallet(ctx, req.AddressFriendly)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	wallet := &models.UserWallet{
		UserID:          user.ID,
		Address:         req.Address,
		AddressFriendly: req.AddressFriendly,
		Network:         req.Network,
		PublicKey:       req.PublicKey,
		ProofPayload:    req.Proof.Payload,
		ProofSignature:  req.Proof.Signature,
		ProofTimestamp:  req.Proof.Timestamp,
		ProofDomain:     req.Proof.Domain.Value,
		Verified:        true,
		IsActive:        true,
	}
	if err := s.walletRepo.ConnectWallet(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.WalletAddress, s.cfg.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		Actor:     &user.WalletAddress,
		ActorType: "user",
		Action:    "wallet_connected",
		Meta:      map[string]any{"address": req.AddressFriendly, "network": req.Network},
	})

	s.log.Info("wallet connected",
		zap.String("user_id", user.ID.String()),
		zap.String("address", req.AddressFriendly),
	)

	return &ConnectResult{User: user, Wallet: wallet, Token: token}, nil
}

func (s *WalletService) Disconnect(ctx context.Context, userID uuid.UUID, walletID uuid.UUID) error {
	return s.walletRepo.DisconnectWallet(ctx, userID, walletID)
}

func (s *WalletService) GetActiveWallet(ctx context.Context, userID uuid.UUID) (*models.UserWallet, error) {
	return s.walletRepo.GetActiveWallet(ctx, userID)
}

type MeResult struct {
	User   *models.User       `json:"user"`
	Wallet *models.UserWallet `json:"wallet,omitempty"`
}

// Me returns the authenticated user and their active wallet, bumping the
// activity timestamp as a side effect.
func (s *WalletService) Me(ctx context.Context, userID uuid.UUID) (*MeResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	_ = s.userRepo.UpdateLastActive(ctx, userID)

	res := &MeResult{User: user}
	if wallet, err := s.walletRepo.GetActiveWallet(ctx, userID); err == nil {
		res.Wallet = wallet
	}
	return res, nil
}
