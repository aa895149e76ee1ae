package repositories

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brickfund/backend/internal/models"
)

type PropertyRepo struct {
	pool *pgxpool.Pool
}

func NewPropertyRepo(pool *pgxpool.Pool) *PropertyRepo {
	return &PropertyRepo{pool: pool}
}

// Create assigns the next sequential id from the registry counter and
// inserts the property in the same transaction. The counter bump is
// guarded so ids never pass the 32-bit ceiling.
func (r *PropertyRepo) Create(ctx context.Context, name, imageURL string) (*models.Property, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		UPDATE registry_counter SET next_id = next_id + 1
		WHERE id = 1 AND next_id <= $1
		RETURNING next_id - 1
	`, int64(math.MaxUint32)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrIDOverflow
	}
	if err != nil {
		return nil, err
	}

	p := &models.Property{
		ID:       uint32(id),
		Name:     name,
		ImageURL: imageURL,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO properties (id, name, image_url)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, int64(p.ID), p.Name, p.ImageURL).Scan(&p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PropertyRepo) GetByID(ctx context.Context, id uint32) (*models.Property, error) {
	var p models.Property
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, image_url, created_at FROM properties WHERE id = $1
	`, int64(id)).Scan(&p.ID, &p.Name, &p.ImageURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepo) List(ctx context.Context, limit, offset int) ([]models.Property, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, image_url, created_at FROM properties
		ORDER BY id LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}
