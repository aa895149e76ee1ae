package repositories

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brickfund/backend/internal/models"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

func (r *PaymentRepo) Get(ctx context.Context, addr models.Address) (*models.PaymentRecord, error) {
	var (
		rec models.PaymentRecord
		amt string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT property_id, owner, amount::text, withdrawn, bump, created_at, updated_at
		FROM payment_records WHERE address = $1
	`, string(addr)).Scan(&rec.PropertyID, &rec.Owner, &amt, &rec.Withdrawn, &rec.Bump, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Amount, err = strconv.ParseUint(amt, 10, 64)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Put upserts the record at its derived address. Everything except
// created_at is overwritten, the caller holds the authoritative state.
func (r *PaymentRepo) Put(ctx context.Context, rec *models.PaymentRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payment_records (address, property_id, owner, amount, withdrawn, bump)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		ON CONFLICT (address) DO UPDATE
		SET property_id = EXCLUDED.property_id,
		    owner = EXCLUDED.owner,
		    amount = EXCLUDED.amount,
		    withdrawn = EXCLUDED.withdrawn,
		    updated_at = now()
	`, string(rec.Address()), int64(rec.PropertyID), string(rec.Owner),
		strconv.FormatUint(rec.Amount, 10), rec.Withdrawn, int16(rec.Bump))
	return err
}

func (r *PaymentRepo) ListByOwner(ctx context.Context, owner models.Address) ([]models.PaymentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT property_id, owner, amount::text, withdrawn, bump, created_at, updated_at
		FROM payment_records WHERE owner = $1 ORDER BY property_id
	`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPaymentRecords(rows)
}

func (r *PaymentRepo) ListByProperty(ctx context.Context, propertyID uint32) ([]models.PaymentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT property_id, owner, amount::text, withdrawn, bump, created_at, updated_at
		FROM payment_records WHERE property_id = $1 ORDER BY created_at
	`, int64(propertyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPaymentRecords(rows)
}

// SumActiveByProperty returns per property the total still owed to
// contributors (non-withdrawn record amounts). The SQL clamps the sum
// at the uint64 ceiling so the text form always parses.
func (r *PaymentRepo) SumActiveByProperty(ctx context.Context) (map[uint32]uint64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT property_id, LEAST(SUM(amount), 18446744073709551615::numeric)::text
		FROM payment_records WHERE NOT withdrawn GROUP BY property_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[uint32]uint64)
	for rows.Next() {
		var (
			id  uint32
			amt string
		)
		if err := rows.Scan(&id, &amt); err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(amt, 10, 64)
		if err != nil {
			return nil, err
		}
		sums[id] = v
	}
	return sums, nil
}

func scanPaymentRecords(rows pgx.Rows) ([]models.PaymentRecord, error) {
	var recs []models.PaymentRecord
	for rows.Next() {
		var (
			rec models.PaymentRecord
			amt string
		)
		if err := rows.Scan(&rec.PropertyID, &rec.Owner, &amt, &rec.Withdrawn, &rec.Bump, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(amt, 10, 64)
		if err != nil {
			return nil, err
		}
		rec.Amount = v
		recs = append(recs, rec)
	}
	return recs, nil
}
