package models

import (
	"errors"
	"testing"
	"time"
)

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{BookingStateNone, BookingStateBooked, true},
		{BookingStateBooked, BookingStateConfirmed, true},
		{BookingStateConfirmed, BookingStatePaid, true},

		// Owner reject / renter cancel
		{BookingStateBooked, BookingStateNone, true},
		{BookingStateConfirmed, BookingStateNone, true},

		// Owner reservation, including displacing a pending booking
		{BookingStateNone, BookingStateReserved, true},
		{BookingStateBooked, BookingStateReserved, true},
		{BookingStateConfirmed, BookingStateReserved, true},
		{BookingStateReserved, BookingStateNone, true},

		// Paid is terminal
		{BookingStatePaid, BookingStateNone, false},
		{BookingStatePaid, BookingStateBooked, false},
		{BookingStatePaid, BookingStateConfirmed, false},
		{BookingStatePaid, BookingStateReserved, false},

		// No skipping forward
		{BookingStateNone, BookingStateConfirmed, false},
		{BookingStateNone, BookingStatePaid, false},
		{BookingStateBooked, BookingStatePaid, false},

		// No stepping backward
		{BookingStateConfirmed, BookingStateBooked, false},
		{BookingStateReserved, BookingStateBooked, false},
		{BookingStateReserved, BookingStateReserved, false},

		// Unknown states
		{"nonexistent", BookingStateBooked, false},
		{BookingStateNone, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllStatesHaveTransitionEntry(t *testing.T) {
	allStates := []string{
		BookingStateNone, BookingStateBooked, BookingStateConfirmed,
		BookingStatePaid, BookingStateReserved,
	}

	for _, state := range allStates {
		if _, ok := ValidBookingTransitions[state]; !ok {
			t.Errorf("state %q missing from ValidBookingTransitions map", state)
		}
	}
}

func TestPaidIsTerminal(t *testing.T) {
	if transitions := ValidBookingTransitions[BookingStatePaid]; len(transitions) != 0 {
		t.Errorf("paid should have no transitions, got %v", transitions)
	}
}

func TestBookingLifecycleScenarios(t *testing.T) {
	scenarios := []struct {
		name  string
		steps []string
	}{
		{"happy path", []string{BookingStateNone, BookingStateBooked, BookingStateConfirmed, BookingStatePaid}},
		{"reject then rebook", []string{BookingStateNone, BookingStateBooked, BookingStateNone, BookingStateBooked, BookingStateConfirmed, BookingStatePaid}},
		{"cancel after confirmation", []string{BookingStateNone, BookingStateBooked, BookingStateConfirmed, BookingStateNone}},
		{"reservation displaces booking", []string{BookingStateNone, BookingStateBooked, BookingStateReserved, BookingStateNone, BookingStateBooked}},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			for i := 1; i < len(sc.steps); i++ {
				from, to := sc.steps[i-1], sc.steps[i]
				if !IsValidTransition(from, to) {
					t.Fatalf("step %d: transition %s -> %s rejected", i, from, to)
				}
			}
		})
	}
}

func TestAcceptPayment(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		price   int64
		amount  int64
		wantErr error
	}{
		{"exact amount", BookingStateConfirmed, 5_000_000_000, 5_000_000_000, nil},
		{"underpayment", BookingStateConfirmed, 5_000_000_000, 4_999_999_999, ErrInvalidPayment},
		{"overpayment", BookingStateConfirmed, 5_000_000_000, 5_000_000_001, ErrInvalidPayment},
		{"zero against a price", BookingStateConfirmed, 5_000_000_000, 0, ErrInvalidPayment},
		{"not yet confirmed", BookingStateBooked, 0, 0, ErrInvalidState},
		{"no booking", BookingStateNone, 0, 0, ErrInvalidState},
		{"already paid", BookingStatePaid, 5_000_000_000, 5_000_000_000, ErrInvalidState},
		{"reserved", BookingStateReserved, 0, 0, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{State: tt.state, Renter: "EQrenter", PriceNano: tt.price}
			err := b.AcceptPayment(tt.amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if b.State != tt.state || b.PriceNano != tt.price {
				t.Error("failed payment must not change the booking")
			}
		})
	}
}

func TestDisplaceEvictsUnpaidRenter(t *testing.T) {
	for _, state := range []string{BookingStateBooked, BookingStateConfirmed} {
		t.Run(state, func(t *testing.T) {
			b := Booking{State: state, Renter: "EQrenter", StartDate: 100, EndDate: 200, PriceNano: 7_000_000_000}

			displaced, err := b.Displace(300, 400)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if displaced != "EQrenter" {
				t.Errorf("displaced = %q, want the evicted renter", displaced)
			}
			if b.State != BookingStateReserved {
				t.Errorf("state = %q, want reserved", b.State)
			}
			if b.Renter != "" || b.PriceNano != 0 {
				t.Errorf("renter %q price %d: reservation must wipe the pending booking", b.Renter, b.PriceNano)
			}
			if b.StartDate != 300 || b.EndDate != 400 {
				t.Errorf("dates (%d,%d), want the owner's (300,400)", b.StartDate, b.EndDate)
			}
		})
	}
}

func TestDisplaceFromEmptySlot(t *testing.T) {
	b := Booking{State: BookingStateNone}
	displaced, err := b.Displace(300, 400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if displaced != "" {
		t.Errorf("displaced = %q, want empty with no pending booking", displaced)
	}
	if b.State != BookingStateReserved {
		t.Errorf("state = %q, want reserved", b.State)
	}
}

func TestDisplaceBlocked(t *testing.T) {
	for _, state := range []string{BookingStatePaid, BookingStateReserved} {
		t.Run(state, func(t *testing.T) {
			b := Booking{State: state, Renter: "EQrenter", PriceNano: 7_000_000_000}
			if _, err := b.Displace(300, 400); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("got %v, want ErrInvalidState", err)
			}
			if b.State != state || b.Renter != "EQrenter" {
				t.Error("blocked reservation must not change the booking")
			}
		})
	}
}

func TestActiveBookingBlocksSecondBooking(t *testing.T) {
	for _, state := range []string{BookingStateBooked, BookingStateConfirmed, BookingStatePaid, BookingStateReserved} {
		if IsValidTransition(state, BookingStateBooked) {
			t.Errorf("a second booking from %s must be rejected", state)
		}
	}
}

func TestCancellationOpen(t *testing.T) {
	window := 7 * 24 * time.Hour
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cutoff := start.Add(-window)

	tests := []struct {
		name     string
		now      time.Time
		expected bool
	}{
		{"well before cutoff", cutoff.Add(-48 * time.Hour), true},
		{"one second before cutoff", cutoff.Add(-time.Second), true},
		{"exactly at cutoff", cutoff, false},
		{"one second after cutoff", cutoff.Add(time.Second), false},
		{"day before start", start.Add(-24 * time.Hour), false},
		{"after start", start.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CancellationOpen(tt.now, start.Unix(), window)
			if got != tt.expected {
				t.Errorf("CancellationOpen(%v, start=%v, window=%v) = %v, want %v",
					tt.now, start, window, got, tt.expected)
			}
		})
	}
}

func TestCancellationOpenZeroWindow(t *testing.T) {
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	if !CancellationOpen(start.Add(-time.Minute), start.Unix(), 0) {
		t.Error("zero window: cancellation should stay open until start")
	}
	if CancellationOpen(start, start.Unix(), 0) {
		t.Error("zero window: cancellation must close at start")
	}
}
