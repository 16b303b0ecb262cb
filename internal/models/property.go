package models

import "time"

// Property is a tokenized rental unit. The id doubles as the token id;
// ownership transfer is handled by the token contract, the ledger only reads
// the current owner.
type Property struct {
	ID             int64     `json:"id"`
	Owner          string    `json:"owner"` // wallet address (friendly form)
	MetadataURI    string    `json:"metadata_uri"`
	BookingAllowed bool      `json:"booking_allowed"`
	Reserved       bool      `json:"reserved"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
