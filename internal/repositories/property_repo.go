package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rent-marketplace/backend/internal/models"
)

type PropertyRepo struct {
	pool *pgxpool.Pool
}

func NewPropertyRepo(pool *pgxpool.Pool) *PropertyRepo {
	return &PropertyRepo{pool: pool}
}

// Create mints a property and its empty booking row in one transaction, so a
// minted id always has a booking record to query.
func (r *PropertyRepo) Create(ctx context.Context, p *models.Property) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO properties (owner, metadata_uri, booking_allowed, reserved)
		VALUES ($1, $2, $3, false)
		RETURNING id, created_at, updated_at
	`, p.Owner, p.MetadataURI, p.BookingAllowed).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO bookings (property_id, state, renter, start_date, end_date, price_nano)
		VALUES ($1, $2, '', 0, 0, 0)
	`, p.ID, models.BookingStateNone); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PropertyRepo) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	var p models.Property
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner, metadata_uri, booking_allowed, reserved, created_at, updated_at
		FROM properties WHERE id = $1
	`, id).Scan(&p.ID, &p.Owner, &p.MetadataURI, &p.BookingAllowed, &p.Reserved, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type PropertyFilter struct {
	Owner          *string
	BookingAllowed *bool
	Limit          int
	Offset         int
}

func (r *PropertyRepo) List(ctx context.Context, f PropertyFilter) ([]models.Property, error) {
	query := `
		SELECT id, owner, metadata_uri, booking_allowed, reserved, created_at, updated_at
		FROM properties
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.Owner != nil {
		where = append(where, fmt.Sprintf("owner = $%d", argIdx))
		args = append(args, *f.Owner)
		argIdx++
	}
	if f.BookingAllowed != nil {
		where = append(where, fmt.Sprintf("booking_allowed = $%d", argIdx))
		args = append(args, *f.BookingAllowed)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Owner, &p.MetadataURI, &p.BookingAllowed, &p.Reserved, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}

func (r *PropertyRepo) SetBookingAllowed(ctx context.Context, id int64, allowed bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE properties SET booking_allowed = $1, updated_at = now() WHERE id = $2
	`, allowed, id)
	return err
}

// SetReserved flips the private-hold flag; runs inside the reservation
// transaction together with the booking state change.
func (r *PropertyRepo) SetReserved(ctx context.Context, q Querier, id int64, reserved bool) error {
	_, err := q.Exec(ctx, `
		UPDATE properties SET reserved = $1, updated_at = now() WHERE id = $2
	`, reserved, id)
	return err
}
