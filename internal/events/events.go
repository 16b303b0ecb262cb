package events

import "context"

// Channel every lifecycle event is published on.
const ChannelBooking = "events:booking"

// Event types, one per committed transition.
const (
	EventPropertyMinted       = "property_minted"
	EventBookingCreated       = "booking_created"
	EventBookingConfirmed     = "booking_confirmed"
	EventBookingPaid          = "booking_paid"
	EventBookingRejected      = "booking_rejected"
	EventBookingCancelled     = "booking_cancelled"
	EventPropertyReserved     = "property_reserved"
	EventBookingStatusToggled = "booking_status_toggled"
	EventEscrowReleased       = "escrow_released"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
