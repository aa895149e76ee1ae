package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brickfund/backend/internal/models"
)

type VaultRepo struct {
	pool *pgxpool.Pool
}

func NewVaultRepo(pool *pgxpool.Pool) *VaultRepo {
	return &VaultRepo{pool: pool}
}

func (r *VaultRepo) Get(ctx context.Context, propertyID uint32) (*models.PropertyVault, error) {
	var v models.PropertyVault
	err := r.pool.QueryRow(ctx, `
		SELECT property_id, bump, created_at, updated_at
		FROM property_vaults WHERE property_id = $1
	`, int64(propertyID)).Scan(&v.PropertyID, &v.Bump, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrVaultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Put creates the vault row on first funding. The property id is the
// primary key, so repeat calls for the same property touch nothing but
// updated_at, the stamped id never changes.
func (r *VaultRepo) Put(ctx context.Context, v *models.PropertyVault) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO property_vaults (property_id, address, bump)
		VALUES ($1, $2, $3)
		ON CONFLICT (property_id) DO UPDATE SET updated_at = now()
	`, int64(v.PropertyID), string(v.Address()), int16(v.Bump))
	return err
}

func (r *VaultRepo) List(ctx context.Context, limit, offset int) ([]models.PropertyVault, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT property_id, bump, created_at, updated_at
		FROM property_vaults ORDER BY property_id LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vaults []models.PropertyVault
	for rows.Next() {
		var v models.PropertyVault
		if err := rows.Scan(&v.PropertyID, &v.Bump, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vaults = append(vaults, v)
	}
	return vaults, nil
}
