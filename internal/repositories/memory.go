package repositories

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brickfund/backend/internal/models"
)

// In-memory counterparts of the pgx repositories, used by tests and by
// local runs without Postgres. They satisfy the same service-side
// interfaces and return the same sentinel errors.

type MemoryVaultStore struct {
	mu     sync.RWMutex
	vaults map[uint32]models.PropertyVault
}

func NewMemoryVaultStore() *MemoryVaultStore {
	return &MemoryVaultStore{vaults: make(map[uint32]models.PropertyVault)}
}

func (s *MemoryVaultStore) Get(ctx context.Context, propertyID uint32) (*models.PropertyVault, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vaults[propertyID]
	if !ok {
		return nil, models.ErrVaultNotFound
	}
	return &v, nil
}

func (s *MemoryVaultStore) Put(ctx context.Context, v *models.PropertyVault) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	stored, ok := s.vaults[v.PropertyID]
	if !ok {
		stored = *v
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.vaults[v.PropertyID] = stored
	return nil
}

func (s *MemoryVaultStore) List(ctx context.Context, limit, offset int) ([]models.PropertyVault, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	all := make([]models.PropertyVault, 0, len(s.vaults))
	for _, v := range s.vaults {
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PropertyID < all[j].PropertyID })
	return page(all, limit, offset), nil
}

type MemoryPaymentStore struct {
	mu      sync.RWMutex
	records map[models.Address]models.PaymentRecord
}

func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{records: make(map[models.Address]models.PaymentRecord)}
}

func (s *MemoryPaymentStore) Get(ctx context.Context, addr models.Address) (*models.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[addr]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &rec, nil
}

func (s *MemoryPaymentStore) Put(ctx context.Context, rec *models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	addr := rec.Address()
	stored := *rec
	if prev, ok := s.records[addr]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.records[addr] = stored
	return nil
}

func (s *MemoryPaymentStore) ListByOwner(ctx context.Context, owner models.Address) ([]models.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var recs []models.PaymentRecord
	for _, rec := range s.records {
		if rec.Owner == owner {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].PropertyID < recs[j].PropertyID })
	return recs, nil
}

func (s *MemoryPaymentStore) ListByProperty(ctx context.Context, propertyID uint32) ([]models.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var recs []models.PaymentRecord
	for _, rec := range s.records {
		if rec.PropertyID == propertyID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.Before(recs[j].CreatedAt) })
	return recs, nil
}

func (s *MemoryPaymentStore) SumActiveByProperty(ctx context.Context) (map[uint32]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := make(map[uint32]uint64)
	for _, rec := range s.records {
		if rec.Withdrawn {
			continue
		}
		cur := sums[rec.PropertyID]
		if cur > math.MaxUint64-rec.Amount {
			sums[rec.PropertyID] = math.MaxUint64
		} else {
			sums[rec.PropertyID] = cur + rec.Amount
		}
	}
	return sums, nil
}

type MemoryPropertyStore struct {
	mu     sync.Mutex
	nextID uint64
	props  map[uint32]models.Property
}

func NewMemoryPropertyStore() *MemoryPropertyStore {
	return &MemoryPropertyStore{nextID: 1, props: make(map[uint32]models.Property)}
}

func (s *MemoryPropertyStore) Create(ctx context.Context, name, imageURL string) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextID > math.MaxUint32 {
		return nil, models.ErrIDOverflow
	}
	p := models.Property{
		ID:        uint32(s.nextID),
		Name:      name,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.props[p.ID] = p
	return &p, nil
}

func (s *MemoryPropertyStore) GetByID(ctx context.Context, id uint32) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.props[id]
	if !ok {
		return nil, models.ErrPropertyNotFound
	}
	return &p, nil
}

func (s *MemoryPropertyStore) List(ctx context.Context, limit, offset int) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	all := make([]models.Property, 0, len(s.props))
	for _, p := range s.props {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), nil
}

// SetNextID moves the counter, used by tests to exercise the id ceiling.
func (s *MemoryPropertyStore) SetNextID(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = id
}

type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{}
}

func (s *MemoryAuditLog) Log(ctx context.Context, entry models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryAuditLog) GetByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var matched []models.AuditLog
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			matched = append(matched, e)
		}
	}
	return page(matched, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
