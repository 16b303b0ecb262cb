package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an API identity bound to a verified wallet address. Role (owner or
// renter) is never stored: it is derived per property from the owner and
// renter fields at call time.
type User struct {
	ID            uuid.UUID `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	LastActiveAt  time.Time `json:"last_active_at"`
}
