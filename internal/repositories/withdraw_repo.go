package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rent-marketplace/backend/internal/models"
)

type WithdrawRepo struct {
	pool *pgxpool.Pool
}

func NewWithdrawRepo(pool *pgxpool.Pool) *WithdrawRepo {
	return &WithdrawRepo{pool: pool}
}

func (r *WithdrawRepo) Upsert(ctx context.Context, w *models.WithdrawWallet) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO withdraw_wallets (property_id, owner_address, wallet_address)
		VALUES ($1, $2, $3)
		ON CONFLICT (property_id) DO UPDATE SET
			wallet_address = EXCLUDED.wallet_address,
			owner_address = EXCLUDED.owner_address,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, w.PropertyID, w.OwnerAddress, w.WalletAddress).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

func (r *WithdrawRepo) GetByProperty(ctx context.Context, propertyID int64) (*models.WithdrawWallet, error) {
	var w models.WithdrawWallet
	err := r.pool.QueryRow(ctx, `
		SELECT id, property_id, owner_address, wallet_address, created_at, updated_at
		FROM withdraw_wallets WHERE property_id = $1
	`, propertyID).Scan(&w.ID, &w.PropertyID, &w.OwnerAddress, &w.WalletAddress, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
