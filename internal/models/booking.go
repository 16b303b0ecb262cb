package models

import (
	"fmt"
	"time"
)

// Booking states
const (
	BookingStateNone      = "none"
	BookingStateBooked    = "booked"
	BookingStateConfirmed = "confirmed"
	BookingStatePaid      = "paid"
	BookingStateReserved  = "reserved"
)

// Valid state transitions: from -> []to
//
// "booked -> none" and "confirmed -> none" cover both the owner reject and
// the renter cancel; "-> reserved" covers an owner reservation displacing a
// pending booking. "paid" is terminal: any later disposition (check-in,
// dispute, refund) belongs to a settlement collaborator, never to the ledger.
var ValidBookingTransitions = map[string][]string{
	BookingStateNone:      {BookingStateBooked, BookingStateReserved},
	BookingStateBooked:    {BookingStateConfirmed, BookingStateNone, BookingStateReserved},
	BookingStateConfirmed: {BookingStatePaid, BookingStateNone, BookingStateReserved},
	BookingStatePaid:      {},
	BookingStateReserved:  {BookingStateNone},
}

func IsValidTransition(from, to string) bool {
	allowed, ok := ValidBookingTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// CancellationOpen reports whether a renter may still cancel a booking that
// starts at startDate (unix seconds). The window closes at exactly
// startDate-window: at that instant cancellation already fails.
func CancellationOpen(now time.Time, startDate int64, window time.Duration) bool {
	cutoff := time.Unix(startDate, 0).Add(-window)
	return now.Before(cutoff)
}

// Booking is the single active booking record of a property. One row per
// property exists from mint on; a property with no renter activity sits in
// state "none" with zeroed renter/dates/price.
type Booking struct {
	PropertyID int64     `json:"property_id"`
	State      string    `json:"state"`
	Renter     string    `json:"renter,omitempty"` // wallet address, empty in none/reserved
	StartDate  int64     `json:"start_date"`       // unix seconds
	EndDate    int64     `json:"end_date"`         // unix seconds
	PriceNano  int64     `json:"price_nano"`       // nanoTON, 0 until confirmation
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AcceptPayment validates a payment against the confirmed booking. The
// ledger accepts nothing but the exact confirmed price in a single transfer;
// any other amount fails with ErrInvalidPayment and changes nothing.
func (b *Booking) AcceptPayment(amountNano int64) error {
	if !IsValidTransition(b.State, BookingStatePaid) {
		return fmt.Errorf("%s -> paid: %w", b.State, ErrInvalidState)
	}
	if amountNano != b.PriceNano {
		return fmt.Errorf("amount %d != price %d: %w", amountNano, b.PriceNano, ErrInvalidPayment)
	}
	return nil
}

// Displace applies the owner-reservation-wins rule: the record moves to
// reserved with the owner's dates, and any unpaid renter is evicted with the
// pending price wiped. Returns the evicted renter, empty when none was
// pending. A paid booking or an existing reservation blocks it.
func (b *Booking) Displace(startDate, endDate int64) (string, error) {
	if !IsValidTransition(b.State, BookingStateReserved) {
		return "", fmt.Errorf("%s -> reserved: %w", b.State, ErrInvalidState)
	}
	displaced := b.Renter
	b.State = BookingStateReserved
	b.Renter = ""
	b.PriceNano = 0
	b.StartDate = startDate
	b.EndDate = endDate
	return displaced, nil
}

// BookingWithProperty embeds Booking and adds property info to avoid N+1 queries.
type BookingWithProperty struct {
	Booking
	Owner          string `json:"owner"`
	MetadataURI    string `json:"metadata_uri"`
	BookingAllowed bool   `json:"booking_allowed"`
	Reserved       bool   `json:"reserved"`
}
