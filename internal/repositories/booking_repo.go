package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rent-marketplace/backend/internal/models"
)

type BookingRepo struct {
	pool *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{pool: pool}
}

func (r *BookingRepo) GetWithProperty(ctx context.Context, propertyID int64) (*models.BookingWithProperty, error) {
	var b models.BookingWithProperty
	err := r.pool.QueryRow(ctx, `
		SELECT b.property_id, b.state, b.renter, b.start_date, b.end_date, b.price_nano, b.created_at, b.updated_at,
		       p.owner, p.metadata_uri, p.booking_allowed, p.reserved
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE b.property_id = $1
	`, propertyID).Scan(&b.PropertyID, &b.State, &b.Renter, &b.StartDate, &b.EndDate, &b.PriceNano, &b.CreatedAt, &b.UpdatedAt,
		&b.Owner, &b.MetadataURI, &b.BookingAllowed, &b.Reserved)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Every transition below is a guarded update: the WHERE state clause is the
// concurrency guard. A false return means the row was not in the expected
// state and nothing changed.

// MarkBooked moves none -> booked, recording the renter and the stay dates.
// created_at is reset to the booking time.
func (r *BookingRepo) MarkBooked(ctx context.Context, propertyID int64, renter string, startDate, endDate int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET state = $1, renter = $2, start_date = $3, end_date = $4, price_nano = 0,
		    created_at = now(), updated_at = now()
		WHERE property_id = $5 AND state = $6
	`, models.BookingStateBooked, renter, startDate, endDate, propertyID, models.BookingStateNone)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkConfirmed moves booked -> confirmed, fixing the price.
func (r *BookingRepo) MarkConfirmed(ctx context.Context, q Querier, propertyID int64, priceNano int64) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings SET state = $1, price_nano = $2, updated_at = now()
		WHERE property_id = $3 AND state = $4
	`, models.BookingStateConfirmed, priceNano, propertyID, models.BookingStateBooked)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPaid moves confirmed -> paid.
func (r *BookingRepo) MarkPaid(ctx context.Context, q Querier, propertyID int64) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings SET state = $1, updated_at = now()
		WHERE property_id = $2 AND state = $3
	`, models.BookingStatePaid, propertyID, models.BookingStateConfirmed)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Clear resets the record to none from any of the given states, wiping the
// renter, dates and price. Used by reject, cancel and freeing a reservation.
func (r *BookingRepo) Clear(ctx context.Context, q Querier, propertyID int64, fromStates []string) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings
		SET state = $1, renter = '', start_date = 0, end_date = 0, price_nano = 0, updated_at = now()
		WHERE property_id = $2 AND state = ANY($3)
	`, models.BookingStateNone, propertyID, fromStates)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkReserved moves none/booked/confirmed -> reserved, wiping any pending
// renter. An owner reservation always wins over an unpaid booking.
func (r *BookingRepo) MarkReserved(ctx context.Context, q Querier, propertyID int64, startDate, endDate int64) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings
		SET state = $1, renter = '', start_date = $2, end_date = $3, price_nano = 0,
		    created_at = now(), updated_at = now()
		WHERE property_id = $4 AND state = ANY($5)
	`, models.BookingStateReserved, startDate, endDate, propertyID,
		[]string{models.BookingStateNone, models.BookingStateBooked, models.BookingStateConfirmed})
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListExpired returns bookings still unpaid after their start date has
// passed. The worker rejects them on the owner's behalf.
func (r *BookingRepo) ListExpired(ctx context.Context, now int64, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT property_id, state, renter, start_date, end_date, price_nano, created_at, updated_at
		FROM bookings
		WHERE state = ANY($1) AND start_date > 0 AND start_date < $2
		ORDER BY start_date LIMIT $3
	`, []string{models.BookingStateBooked, models.BookingStateConfirmed}, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.PropertyID, &b.State, &b.Renter, &b.StartDate, &b.EndDate, &b.PriceNano, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// ListSettleable returns paid bookings whose stay has ended and whose escrow
// is still funded. The settlement worker releases these.
func (r *BookingRepo) ListSettleable(ctx context.Context, now int64, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT b.property_id, b.state, b.renter, b.start_date, b.end_date, b.price_nano, b.created_at, b.updated_at
		FROM bookings b
		JOIN escrow_ledger e ON e.property_id = b.property_id
		WHERE b.state = $1 AND b.end_date < $2 AND e.status = $3
		ORDER BY b.end_date LIMIT $4
	`, models.BookingStatePaid, now, models.EscrowStatusFunded, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.PropertyID, &b.State, &b.Renter, &b.StartDate, &b.EndDate, &b.PriceNano, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// ResetSettled returns a settled booking to none so the unit can be rebooked.
// This is a settlement-collaborator operation, not a ledger transition: it
// only runs after the escrow row has been released.
func (r *BookingRepo) ResetSettled(ctx context.Context, q Querier, propertyID int64) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE bookings b
		SET state = $1, renter = '', start_date = 0, end_date = 0, price_nano = 0, updated_at = now()
		FROM escrow_ledger e
		WHERE b.property_id = $2 AND b.state = $3
		  AND e.property_id = b.property_id AND e.status = $4
	`, models.BookingStateNone, propertyID, models.BookingStatePaid, models.EscrowStatusReleased)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
