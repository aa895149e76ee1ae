package models

import (
	"math"
	"time"
)

// PropertyVault holds the pooled escrow balance for one property. The
// balance itself is not a field: it is the ledger balance at the vault's
// derived address, and the ledger stays the single authority for it.
type PropertyVault struct {
	PropertyID uint32    `json:"property_id"`
	Bump       uint8     `json:"bump"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Address returns the vault's derived ledger address.
func (v *PropertyVault) Address() Address {
	addr, _ := DeriveVaultAddress(v.PropertyID)
	return addr
}

// PaymentRecord tracks one contributor's undrawn deposit balance for one
// property. Owner and PropertyID never change once the record has been
// populated; a fully withdrawn record is reused in place on the next
// deposit instead of being recreated.
type PaymentRecord struct {
	PropertyID uint32    `json:"property_id"`
	Owner      Address   `json:"owner"`
	Amount     uint64    `json:"amount,string"`
	Withdrawn  bool      `json:"withdrawn"`
	Bump       uint8     `json:"bump"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Address returns the record's derived ledger address.
func (r *PaymentRecord) Address() Address {
	addr, _ := DerivePaymentAddress(r.PropertyID, r.Owner)
	return addr
}

// ApplyDeposit folds a deposit into the record. A pristine record is
// populated from scratch, a fully withdrawn record starts a fresh cycle
// holding just this deposit, and an active record tops up with saturating
// addition: a deposit never fails on overflow, it clamps at the maximum.
// The withdrawn flag clears in every case.
func (r *PaymentRecord) ApplyDeposit(owner Address, propertyID uint32, amount uint64) {
	switch {
	case r.Owner.IsZero():
		r.Owner = owner
		r.PropertyID = propertyID
		r.Amount = amount
	case r.Withdrawn:
		r.PropertyID = propertyID
		r.Amount = amount
	default:
		r.Amount = saturatingAdd(r.Amount, amount)
	}
	r.Withdrawn = false
}

// Debit reduces the undrawn balance. Requests above the recorded balance
// are rejected outright, never clamped. Hitting zero marks the record
// withdrawn, which routes the next deposit into a fresh cycle.
func (r *PaymentRecord) Debit(amount uint64) error {
	if amount > r.Amount {
		return ErrInsufficientFunds
	}
	r.Amount -= amount
	if r.Amount == 0 {
		r.Withdrawn = true
	}
	return nil
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
