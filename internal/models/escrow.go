package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EscrowStatusAwaiting = "awaiting"
	EscrowStatusFunded   = "funded"
	EscrowStatusReleased = "released"
	EscrowStatusRefunded = "refunded"
)

// EscrowEntry tracks the funds committed against a confirmed booking. The row
// is created at confirmation (awaiting), funded exactly once on payment, and
// either released to the owner at settlement or marked refunded when the
// booking is torn down before any funds arrived. Funded escrow never goes
// back to the renter through any ledger operation.
type EscrowEntry struct {
	ID             uuid.UUID  `json:"id"`
	PropertyID     int64      `json:"property_id"`
	ExpectedNano   int64      `json:"expected_nano"`
	DepositAddress string     `json:"deposit_address"`
	DepositMemo    string     `json:"deposit_memo"`
	FundedAt       *time.Time `json:"funded_at,omitempty"`
	FundingTxRef   *string    `json:"funding_tx_ref,omitempty"`
	PayerAddress   *string    `json:"payer_address,omitempty"`
	ReleaseTxRef   *string    `json:"release_tx_ref,omitempty"`
	RefundedAt     *time.Time `json:"refunded_at,omitempty"`
	Status         string     `json:"status"`
}
