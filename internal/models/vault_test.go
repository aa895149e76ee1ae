package models

import (
	"math"
	"strings"
	"testing"
)

var testOwner = Address(strings.Repeat("a", 64))

func TestApplyDepositPristine(t *testing.T) {
	rec := &PaymentRecord{}
	rec.ApplyDeposit(testOwner, 7, 100)

	if rec.Owner != testOwner {
		t.Errorf("owner = %q, want %q", rec.Owner, testOwner)
	}
	if rec.PropertyID != 7 {
		t.Errorf("property id = %d, want 7", rec.PropertyID)
	}
	if rec.Amount != 100 {
		t.Errorf("amount = %d, want 100", rec.Amount)
	}
	if rec.Withdrawn {
		t.Error("withdrawn should be false after a deposit")
	}
}

func TestApplyDepositTopUp(t *testing.T) {
	rec := &PaymentRecord{}
	rec.ApplyDeposit(testOwner, 7, 10)
	rec.ApplyDeposit(testOwner, 7, 15)

	if rec.Amount != 25 {
		t.Errorf("amount = %d, want 25", rec.Amount)
	}
	if rec.Withdrawn {
		t.Error("withdrawn should stay false while topping up")
	}
}

func TestApplyDepositSaturates(t *testing.T) {
	tests := []struct {
		name     string
		start    uint64
		deposit  uint64
		expected uint64
	}{
		{"clamps at max", math.MaxUint64 - 5, 10, math.MaxUint64},
		{"exact max", math.MaxUint64 - 10, 10, math.MaxUint64},
		{"max plus anything", math.MaxUint64, 1, math.MaxUint64},
		{"no overflow", 100, 200, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &PaymentRecord{Owner: testOwner, PropertyID: 7, Amount: tt.start}
			rec.ApplyDeposit(testOwner, 7, tt.deposit)
			if rec.Amount != tt.expected {
				t.Errorf("amount = %d, want %d", rec.Amount, tt.expected)
			}
		})
	}
}

func TestApplyDepositFreshCycle(t *testing.T) {
	rec := &PaymentRecord{}
	rec.ApplyDeposit(testOwner, 7, 25)

	if err := rec.Debit(25); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if !rec.Withdrawn {
		t.Fatal("record should be withdrawn after draining the full amount")
	}

	// Next deposit starts a fresh cycle: the stale zero is overwritten,
	// not accumulated, and the property id is re-stamped.
	rec.ApplyDeposit(testOwner, 7, 5)
	if rec.Amount != 5 {
		t.Errorf("amount = %d, want 5", rec.Amount)
	}
	if rec.Withdrawn {
		t.Error("withdrawn should clear on the fresh deposit")
	}
	if rec.PropertyID != 7 {
		t.Errorf("property id = %d, want 7", rec.PropertyID)
	}
	if rec.Owner != testOwner {
		t.Errorf("owner = %q, want %q", rec.Owner, testOwner)
	}
}

func TestDebit(t *testing.T) {
	tests := []struct {
		name          string
		start         uint64
		debit         uint64
		wantErr       bool
		wantAmount    uint64
		wantWithdrawn bool
	}{
		{"partial leaves record active", 100, 40, false, 60, false},
		{"full marks withdrawn", 100, 100, false, 0, true},
		{"over-withdrawal rejected", 100, 101, true, 100, false},
		{"zero debit is a no-op", 100, 0, false, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &PaymentRecord{Owner: testOwner, PropertyID: 3, Amount: tt.start}
			err := rec.Debit(tt.debit)
			if tt.wantErr {
				if err != ErrInsufficientFunds {
					t.Fatalf("err = %v, want ErrInsufficientFunds", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Amount != tt.wantAmount {
				t.Errorf("amount = %d, want %d", rec.Amount, tt.wantAmount)
			}
			if rec.Withdrawn != tt.wantWithdrawn {
				t.Errorf("withdrawn = %v, want %v", rec.Withdrawn, tt.wantWithdrawn)
			}
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	tests := []struct {
		name     string
		propName string
		imageURL string
		wantErr  error
	}{
		{"both within limits", strings.Repeat("n", MaxPropertyNameLen), strings.Repeat("u", MaxImageURLLen), nil},
		{"name too long", strings.Repeat("n", MaxPropertyNameLen+1), "ok", ErrNameTooLong},
		{"image url too long", "ok", strings.Repeat("u", MaxImageURLLen+1), ErrImageURLTooLong},
		{"empty is fine", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateMetadata(tt.propName, tt.imageURL); err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
