package ledger

import (
	"context"
	"errors"

	"github.com/brickfund/backend/internal/models"
)

// ErrInsufficientBalance is returned by Transfer when the source
// address does not hold the requested amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger is the value-transfer backend. Every address in the system
// (contributor wallets, property vaults, the master treasury) holds a
// balance here, and Transfer moves value atomically: either both the
// debit and the credit land, or neither does.
type Ledger interface {
	Balance(ctx context.Context, addr models.Address) (uint64, error)
	Transfer(ctx context.Context, from, to models.Address, amount uint64) error
}

// Minter creates new value, used by the deposit on-ramp when an
// external top-up is confirmed.
type Minter interface {
	Mint(ctx context.Context, to models.Address, amount uint64) error
}

// Auditor exposes whole-ledger aggregates for the background
// conservation check: the sum of all balances must always equal the
// total ever minted, since transfers only move value around.
type Auditor interface {
	TotalBalance(ctx context.Context) (uint64, error)
	MintedTotal(ctx context.Context) (uint64, error)
}
