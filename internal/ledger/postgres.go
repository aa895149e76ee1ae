package ledger

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brickfund/backend/internal/models"
)

// Postgres keeps balances in the accounts table. Amounts are stored as
// NUMERIC(20,0) and crossed over the wire as text so the full uint64
// range survives the round trip (bigint would lose the top bit).
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Balance(ctx context.Context, addr models.Address) (uint64, error) {
	var raw string
	err := p.pool.QueryRow(ctx, `
		SELECT balance::text FROM accounts WHERE address = $1
	`, string(addr)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(raw, 10, 64)
}

// Transfer debits from and credits to inside one transaction. The
// debit is guarded by balance >= amount, so a zero rows-affected
// result means the source cannot cover the amount.
func (p *Postgres) Transfer(ctx context.Context, from, to models.Address, amount uint64) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	amt := strconv.FormatUint(amount, 10)

	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET balance = balance - $2::numeric, updated_at = now()
		WHERE address = $1 AND balance >= $2::numeric
	`, string(from), amt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (address, balance) VALUES ($1, $2::numeric)
		ON CONFLICT (address) DO UPDATE
		SET balance = accounts.balance + EXCLUDED.balance, updated_at = now()
	`, string(to), amt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *Postgres) Mint(ctx context.Context, to models.Address, amount uint64) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	amt := strconv.FormatUint(amount, 10)

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (address, balance) VALUES ($1, $2::numeric)
		ON CONFLICT (address) DO UPDATE
		SET balance = accounts.balance + EXCLUDED.balance, updated_at = now()
	`, string(to), amt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE ledger_supply SET minted = minted + $1::numeric, updated_at = now() WHERE id = 1
	`, amt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *Postgres) TotalBalance(ctx context.Context) (uint64, error) {
	var raw string
	err := p.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance), 0)::text FROM accounts
	`).Scan(&raw)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(raw, 10, 64)
}

func (p *Postgres) MintedTotal(ctx context.Context) (uint64, error) {
	var raw string
	err := p.pool.QueryRow(ctx, `
		SELECT minted::text FROM ledger_supply WHERE id = 1
	`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(raw, 10, 64)
}
