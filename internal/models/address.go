package models

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Address identifies an account on the internal ledger. Contributors,
// property vaults and the master authority all live in the same address
// space. The zero value is the null identity.
type Address string

const addressHexLen = 64 // 32 bytes, lowercase hex

// Seed tags for derived addresses. Fixed tags keep the vault and payment
// spaces disjoint: one vault per property, one payment record per
// (property, contributor) pair, no collisions across properties.
const (
	vaultSeed   = "property_vault"
	paymentSeed = "payment"
)

// ParseAddress validates and normalizes an address supplied by a client.
func ParseAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != addressHexLen {
		return "", fmt.Errorf("address must be %d hex characters, got %d", addressHexLen, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("address is not valid hex: %w", err)
	}
	return Address(s), nil
}

func (a Address) IsZero() bool { return a == "" }

func (a Address) String() string { return string(a) }

// DeriveVaultAddress returns the ledger address of a property's vault and
// its disambiguation byte. Derivation is pure: the same property id always
// maps to the same address, so the vault is found without any index.
func DeriveVaultAddress(propertyID uint32) (Address, uint8) {
	return derive([]byte(vaultSeed), leUint32(propertyID))
}

// DerivePaymentAddress returns the address of the payment record for a
// (property, contributor) pair.
func DerivePaymentAddress(propertyID uint32, owner Address) (Address, uint8) {
	return derive([]byte(paymentSeed), leUint32(propertyID), []byte(owner))
}

func derive(seeds ...[]byte) (Address, uint8) {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	sum := h.Sum(nil)
	return Address(hex.EncodeToString(sum)), sum[len(sum)-1]
}

func leUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
