package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rent-marketplace/backend/internal/models"
)

type EscrowRepo struct {
	pool *pgxpool.Pool
}

func NewEscrowRepo(pool *pgxpool.Pool) *EscrowRepo {
	return &EscrowRepo{pool: pool}
}

// CreateAwaiting opens (or reopens) the escrow row for a property at
// confirmation time. A previous refunded/released row for the same unit is
// overwritten: only one escrow row exists per property.
func (r *EscrowRepo) CreateAwaiting(ctx context.Context, q Querier, e *models.EscrowEntry) error {
	return q.QueryRow(ctx, `
		INSERT INTO escrow_ledger (property_id, expected_nano, deposit_address, deposit_memo, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (property_id) DO UPDATE
		SET expected_nano = EXCLUDED.expected_nano,
		    deposit_address = EXCLUDED.deposit_address,
		    deposit_memo = EXCLUDED.deposit_memo,
		    status = EXCLUDED.status,
		    funded_at = NULL, funding_tx_ref = NULL, payer_address = NULL,
		    release_tx_ref = NULL, refunded_at = NULL
		RETURNING id
	`, e.PropertyID, e.ExpectedNano, e.DepositAddress, e.DepositMemo, models.EscrowStatusAwaiting).Scan(&e.ID)
}

func (r *EscrowRepo) GetByPropertyID(ctx context.Context, propertyID int64) (*models.EscrowEntry, error) {
	return r.getBy(ctx, `WHERE property_id = $1`, propertyID)
}

func (r *EscrowRepo) GetByMemo(ctx context.Context, memo string) (*models.EscrowEntry, error) {
	return r.getBy(ctx, `WHERE deposit_memo = $1`, memo)
}

func (r *EscrowRepo) getBy(ctx context.Context, where string, arg any) (*models.EscrowEntry, error) {
	var e models.EscrowEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, property_id, expected_nano, deposit_address, deposit_memo,
		       funded_at, funding_tx_ref, payer_address, release_tx_ref, refunded_at, status
		FROM escrow_ledger `+where,
		arg).Scan(&e.ID, &e.PropertyID, &e.ExpectedNano, &e.DepositAddress, &e.DepositMemo,
		&e.FundedAt, &e.FundingTxRef, &e.PayerAddress, &e.ReleaseTxRef, &e.RefundedAt, &e.Status)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarkFunded records the deposit. Guarded on awaiting so a replayed chain
// transaction cannot fund twice.
func (r *EscrowRepo) MarkFunded(ctx context.Context, q Querier, propertyID int64, txRef, payerAddr string) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE escrow_ledger
		SET status = $1, funded_at = now(), funding_tx_ref = $2, payer_address = $3
		WHERE property_id = $4 AND status = $5
	`, models.EscrowStatusFunded, txRef, payerAddr, propertyID, models.EscrowStatusAwaiting)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkReleased pays the owner out. Only funded escrow can be released.
func (r *EscrowRepo) MarkReleased(ctx context.Context, q Querier, propertyID int64, txRef string) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE escrow_ledger SET status = $1, release_tx_ref = $2
		WHERE property_id = $3 AND status = $4
	`, models.EscrowStatusReleased, txRef, propertyID, models.EscrowStatusFunded)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkRefunded closes an awaiting row when the booking is rejected or
// cancelled before funds arrived. Funded escrow is never refunded here.
func (r *EscrowRepo) MarkRefunded(ctx context.Context, q Querier, propertyID int64) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE escrow_ledger SET status = $1, refunded_at = now()
		WHERE property_id = $2 AND status = $3
	`, models.EscrowStatusRefunded, propertyID, models.EscrowStatusAwaiting)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
