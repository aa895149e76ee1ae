package models

import (
	"strings"
	"testing"
)

func TestDeriveVaultAddress(t *testing.T) {
	addr1, bump1 := DeriveVaultAddress(1)
	addr2, bump2 := DeriveVaultAddress(1)

	if addr1 != addr2 || bump1 != bump2 {
		t.Error("vault derivation must be deterministic")
	}
	if len(addr1) != addressHexLen {
		t.Errorf("address length = %d, want %d", len(addr1), addressHexLen)
	}

	other, _ := DeriveVaultAddress(2)
	if other == addr1 {
		t.Error("different property ids must derive different vault addresses")
	}
}

func TestDerivePaymentAddress(t *testing.T) {
	owner := Address(strings.Repeat("c", 64))

	addr1, _ := DerivePaymentAddress(1, owner)
	addr2, _ := DerivePaymentAddress(1, owner)
	if addr1 != addr2 {
		t.Error("payment derivation must be deterministic")
	}

	byProperty, _ := DerivePaymentAddress(2, owner)
	if byProperty == addr1 {
		t.Error("different property ids must derive different payment addresses")
	}

	byOwner, _ := DerivePaymentAddress(1, Address(strings.Repeat("d", 64)))
	if byOwner == addr1 {
		t.Error("different owners must derive different payment addresses")
	}

	vault, _ := DeriveVaultAddress(1)
	if vault == addr1 {
		t.Error("vault and payment namespaces must not collide")
	}
}

func TestParseAddress(t *testing.T) {
	valid := strings.Repeat("ab", 32)

	tests := []struct {
		name    string
		in      string
		want    Address
		wantErr bool
	}{
		{"valid lowercase", valid, Address(valid), false},
		{"uppercase normalized", strings.ToUpper(valid), Address(valid), false},
		{"surrounding whitespace", "  " + valid + "\n", Address(valid), false},
		{"too short", valid[:63], "", true},
		{"too long", valid + "0", "", true},
		{"non-hex characters", strings.Repeat("zz", 32), "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
