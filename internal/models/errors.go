package models

import "errors"

// Rejection reasons surfaced by the escrow and registry services. Every
// precondition is checked before any state mutation, so a returned error
// means nothing was transferred or persisted.
var (
	ErrAlreadyWithdrawn       = errors.New("payment already withdrawn")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInsufficientFunds      = errors.New("insufficient deposit balance")
	ErrVaultInsufficientFunds = errors.New("insufficient funds in the vault")

	ErrNameTooLong     = errors.New("property name too long")
	ErrImageURLTooLong = errors.New("property image url too long")
	ErrIDOverflow      = errors.New("property id counter overflow")

	ErrPropertyNotFound = errors.New("property not found")
	ErrVaultNotFound    = errors.New("property vault not found")
	ErrRecordNotFound   = errors.New("payment record not found")
)
