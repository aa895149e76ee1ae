package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/events"
	"github.com/brickfund/backend/internal/ledger"
	"github.com/brickfund/backend/internal/metrics"
	"github.com/brickfund/backend/internal/models"
)

// VaultStore persists PropertyVault rows keyed by property id.
type VaultStore interface {
	Get(ctx context.Context, propertyID uint32) (*models.PropertyVault, error)
	Put(ctx context.Context, v *models.PropertyVault) error
}

// PaymentStore persists PaymentRecord rows keyed by derived address.
type PaymentStore interface {
	Get(ctx context.Context, addr models.Address) (*models.PaymentRecord, error)
	Put(ctx context.Context, rec *models.PaymentRecord) error
	ListByOwner(ctx context.Context, owner models.Address) ([]models.PaymentRecord, error)
	ListByProperty(ctx context.Context, propertyID uint32) ([]models.PaymentRecord, error)
}

// AuditStore records who did what to which entity.
type AuditStore interface {
	Log(ctx context.Context, entry models.AuditLog) error
	GetByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.AuditLog, error)
}

// EscrowService owns the three escrow operations. Operations are
// serialized with a single mutex: every precondition is checked
// against current state immediately before mutating it, and no two
// operations interleave between check and mutation.
type EscrowService struct {
	mu         sync.Mutex
	vaults     VaultStore
	payments   PaymentStore
	audit      AuditStore
	ledger     ledger.Ledger
	publisher  events.Publisher
	metrics    *metrics.Metrics
	masterAddr models.Address
	log        *zap.Logger
}

func NewEscrowService(
	vaults VaultStore,
	payments PaymentStore,
	audit AuditStore,
	ldg ledger.Ledger,
	publisher events.Publisher,
	m *metrics.Metrics,
	masterAddr models.Address,
	log *zap.Logger,
) *EscrowService {
	return &EscrowService{
		vaults:     vaults,
		payments:   payments,
		audit:      audit,
		ledger:     ldg,
		publisher:  publisher,
		metrics:    m,
		masterAddr: masterAddr,
		log:        log,
	}
}

// FundProperty moves amount from the contributor into the property's
// vault and creates or tops up the contributor's payment record.
// Repeat funding never errors, deposits accumulate.
func (s *EscrowService) FundProperty(ctx context.Context, contributor models.Address, propertyID uint32, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Перевод средств contributor → vault. При нехватке баланса вся
	//    операция отменяется, частичных эффектов нет.
	vaultAddr, vaultBump := models.DeriveVaultAddress(propertyID)
	if err := s.ledger.Transfer(ctx, contributor, vaultAddr, amount); err != nil {
		s.metrics.IncRejection("fund", "insufficient_balance")
		return fmt.Errorf("fund transfer: %w", err)
	}

	// 2. Vault создаётся при первом использовании; property_id ставится
	//    один раз и больше не меняется.
	vault := &models.PropertyVault{PropertyID: propertyID, Bump: vaultBump}
	if err := s.vaults.Put(ctx, vault); err != nil {
		return fmt.Errorf("persist vault: %w", err)
	}

	// 3. Payment record: pristine → заполняем, withdrawn → новый цикл,
	//    активный → насыщающее сложение.
	payAddr, payBump := models.DerivePaymentAddress(propertyID, contributor)
	rec, err := s.payments.Get(ctx, payAddr)
	if errors.Is(err, models.ErrRecordNotFound) {
		rec = &models.PaymentRecord{Bump: payBump}
	} else if err != nil {
		return fmt.Errorf("load payment record: %w", err)
	}

	rec.ApplyDeposit(contributor, propertyID, amount)

	if err := s.payments.Put(ctx, rec); err != nil {
		return fmt.Errorf("persist payment record: %w", err)
	}

	entityID := strconv.FormatUint(uint64(propertyID), 10)
	_ = s.audit.Log(ctx, models.AuditLog{
		Actor:      string(contributor),
		ActorType:  "contributor",
		Action:     "property_funded",
		EntityType: "property",
		EntityID:   entityID,
		Meta:       map[string]any{"amount": strconv.FormatUint(amount, 10)},
	})

	_ = s.publisher.Publish(ctx, events.StreamEscrow, events.Event{
		Type: events.EventPropertyFunded,
		Payload: map[string]any{
			"property_id": propertyID,
			"contributor": string(contributor),
			"amount":      strconv.FormatUint(amount, 10),
		},
	})

	s.metrics.IncOperation("fund", amount)
	s.log.Info("property funded",
		zap.Uint32("property_id", propertyID),
		zap.String("contributor", string(contributor)),
		zap.Uint64("amount", amount),
	)

	return nil
}

// WithdrawPayment returns up to the contributor's own undrawn balance
// from the vault. Partial withdrawals leave the record active; a full
// withdrawal marks it withdrawn, and the next deposit starts a fresh
// cycle.
func (s *EscrowService) WithdrawPayment(ctx context.Context, contributor models.Address, propertyID uint32, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payAddr, _ := models.DerivePaymentAddress(propertyID, contributor)
	rec, err := s.payments.Get(ctx, payAddr)
	if err != nil {
		s.metrics.IncRejection("withdraw_own", "record_not_found")
		return err
	}
	if rec.Owner != contributor {
		s.metrics.IncRejection("withdraw_own", "unauthorized")
		return models.ErrUnauthorized
	}
	if rec.Withdrawn {
		s.metrics.IncRejection("withdraw_own", "already_withdrawn")
		return models.ErrAlreadyWithdrawn
	}
	if amount > rec.Amount {
		s.metrics.IncRejection("withdraw_own", "insufficient_funds")
		return models.ErrInsufficientFunds
	}

	// Vault мог быть осушен master-выводом: запись contributor'а этого
	// не видит, поэтому баланс vault проверяется отдельно.
	vaultAddr, _ := models.DeriveVaultAddress(propertyID)
	bal, err := s.ledger.Balance(ctx, vaultAddr)
	if err != nil {
		return fmt.Errorf("vault balance: %w", err)
	}
	if bal < amount {
		s.metrics.IncRejection("withdraw_own", "vault_insufficient_funds")
		return models.ErrVaultInsufficientFunds
	}

	if err := s.ledger.Transfer(ctx, vaultAddr, contributor, amount); err != nil {
		return fmt.Errorf("withdraw transfer: %w", err)
	}

	if err := rec.Debit(amount); err != nil {
		return err
	}
	if err := s.payments.Put(ctx, rec); err != nil {
		return fmt.Errorf("persist payment record: %w", err)
	}

	entityID := strconv.FormatUint(uint64(propertyID), 10)
	_ = s.audit.Log(ctx, models.AuditLog{
		Actor:      string(contributor),
		ActorType:  "contributor",
		Action:     "payment_withdrawn",
		EntityType: "property",
		EntityID:   entityID,
		Meta: map[string]any{
			"amount":    strconv.FormatUint(amount, 10),
			"remaining": strconv.FormatUint(rec.Amount, 10),
		},
	})

	_ = s.publisher.Publish(ctx, events.StreamEscrow, events.Event{
		Type: events.EventPaymentWithdrawn,
		Payload: map[string]any{
			"property_id": propertyID,
			"contributor": string(contributor),
			"amount":      strconv.FormatUint(amount, 10),
			"remaining":   strconv.FormatUint(rec.Amount, 10),
		},
	})

	s.metrics.IncOperation("withdraw_own", amount)
	s.log.Info("payment withdrawn",
		zap.Uint32("property_id", propertyID),
		zap.String("contributor", string(contributor)),
		zap.Uint64("amount", amount),
		zap.Uint64("remaining", rec.Amount),
	)

	return nil
}

// WithdrawMaster sweeps amount from the vault's pooled balance to the
// master address. Payment records are not touched: the sweep is
// independent of individual contributor claims, and a later
// WithdrawPayment may find the vault short even though the record
// shows sufficient balance. That trust assumption is intentional and
// surfaced by the worker's shortfall audit rather than prevented here.
func (s *EscrowService) WithdrawMaster(ctx context.Context, caller models.Address, propertyID uint32, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Проверка авторизации строго до любых обращений к состоянию.
	if s.masterAddr.IsZero() || caller != s.masterAddr {
		s.metrics.IncRejection("withdraw_master", "unauthorized")
		return models.ErrUnauthorized
	}

	vault, err := s.vaults.Get(ctx, propertyID)
	if err != nil {
		s.metrics.IncRejection("withdraw_master", "vault_not_found")
		return err
	}

	vaultAddr := vault.Address()
	bal, err := s.ledger.Balance(ctx, vaultAddr)
	if err != nil {
		return fmt.Errorf("vault balance: %w", err)
	}
	if bal < amount {
		s.metrics.IncRejection("withdraw_master", "vault_insufficient_funds")
		return models.ErrVaultInsufficientFunds
	}

	if err := s.ledger.Transfer(ctx, vaultAddr, caller, amount); err != nil {
		return fmt.Errorf("master transfer: %w", err)
	}

	entityID := strconv.FormatUint(uint64(propertyID), 10)
	_ = s.audit.Log(ctx, models.AuditLog{
		Actor:      string(caller),
		ActorType:  "master",
		Action:     "master_withdrawn",
		EntityType: "property",
		EntityID:   entityID,
		Meta: map[string]any{
			"amount":        strconv.FormatUint(amount, 10),
			"vault_balance": strconv.FormatUint(bal-amount, 10),
		},
	})

	_ = s.publisher.Publish(ctx, events.StreamEscrow, events.Event{
		Type: events.EventMasterWithdrawn,
		Payload: map[string]any{
			"property_id": propertyID,
			"amount":      strconv.FormatUint(amount, 10),
		},
	})

	s.metrics.IncOperation("withdraw_master", amount)
	s.log.Info("master withdrawal",
		zap.Uint32("property_id", propertyID),
		zap.Uint64("amount", amount),
		zap.Uint64("vault_balance", bal-amount),
	)

	return nil
}

// GetVault returns the vault row plus its current ledger balance.
func (s *EscrowService) GetVault(ctx context.Context, propertyID uint32) (*models.PropertyVault, uint64, error) {
	vault, err := s.vaults.Get(ctx, propertyID)
	if err != nil {
		return nil, 0, err
	}
	bal, err := s.ledger.Balance(ctx, vault.Address())
	if err != nil {
		return nil, 0, err
	}
	return vault, bal, nil
}

// GetPaymentRecord returns the caller's record for one property.
func (s *EscrowService) GetPaymentRecord(ctx context.Context, owner models.Address, propertyID uint32) (*models.PaymentRecord, error) {
	addr, _ := models.DerivePaymentAddress(propertyID, owner)
	return s.payments.Get(ctx, addr)
}

// ListPayments returns every record owned by the address.
func (s *EscrowService) ListPayments(ctx context.Context, owner models.Address) ([]models.PaymentRecord, error) {
	return s.payments.ListByOwner(ctx, owner)
}

// AccountBalance reports the ledger balance of any address.
func (s *EscrowService) AccountBalance(ctx context.Context, addr models.Address) (uint64, error) {
	return s.ledger.Balance(ctx, addr)
}

// PropertyEvents returns the audit trail for one property.
func (s *EscrowService) PropertyEvents(ctx context.Context, propertyID uint32) ([]models.AuditLog, error) {
	return s.audit.GetByEntity(ctx, "property", strconv.FormatUint(uint64(propertyID), 10), 100, 0)
}
