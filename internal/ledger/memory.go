package ledger

import (
	"context"
	"math"
	"sync"

	"github.com/brickfund/backend/internal/models"
)

// Memory is a mutex-guarded in-process ledger used by tests and local
// development. Addresses with no history report a zero balance.
type Memory struct {
	mu       sync.Mutex
	balances map[models.Address]uint64
	minted   uint64
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[models.Address]uint64)}
}

func (m *Memory) Balance(ctx context.Context, addr models.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[addr], nil
}

func (m *Memory) Transfer(ctx context.Context, from, to models.Address, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[from] < amount {
		return ErrInsufficientBalance
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}

func (m *Memory) Mint(ctx context.Context, to models.Address, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[to] += amount
	m.minted = satAdd(m.minted, amount)
	return nil
}

func (m *Memory) TotalBalance(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total uint64
	for _, b := range m.balances {
		total = satAdd(total, b)
	}
	return total, nil
}

func (m *Memory) MintedTotal(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minted, nil
}

// Aggregates clamp at the uint64 ceiling so they stay comparable even
// when the true totals pass it.
func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
