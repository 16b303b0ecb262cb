package models

import (
	"time"

	"github.com/google/uuid"
)

// WithdrawWallet is the settlement target an owner registers for a property.
// Released escrow is paid out to this address.
type WithdrawWallet struct {
	ID            uuid.UUID `json:"id"`
	PropertyID    int64     `json:"property_id"`
	OwnerAddress  string    `json:"owner_address"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
