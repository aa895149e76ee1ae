package services

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/events"
	"github.com/brickfund/backend/internal/models"
	"github.com/brickfund/backend/internal/repositories"
)

func newTestRegistry() (*RegistryService, *repositories.MemoryPropertyStore) {
	props := repositories.NewMemoryPropertyStore()
	svc := NewRegistryService(props, repositories.NewMemoryAuditLog(), events.NopPublisher{}, zap.NewNop())
	return svc, props
}

func TestRegisterPropertySequentialIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRegistry()

	p1, err := svc.RegisterProperty(ctx, "Riverside Flat", "https://example.com/a.jpg")
	require.NoError(t, err)
	p2, err := svc.RegisterProperty(ctx, "Harbor House", "https://example.com/b.jpg")
	require.NoError(t, err)
	p3, err := svc.RegisterProperty(ctx, "Hilltop Villa", "")
	require.NoError(t, err)

	assert.Equal(t, uint32(1), p1.ID)
	assert.Equal(t, uint32(2), p2.ID)
	assert.Equal(t, uint32(3), p3.ID)

	got, err := svc.GetProperty(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Harbor House", got.Name)

	all, err := svc.ListProperties(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRegisterPropertyMetadataLimits(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRegistry()

	_, err := svc.RegisterProperty(ctx, strings.Repeat("n", models.MaxPropertyNameLen+1), "")
	assert.ErrorIs(t, err, models.ErrNameTooLong)

	_, err = svc.RegisterProperty(ctx, "ok", strings.Repeat("u", models.MaxImageURLLen+1))
	assert.ErrorIs(t, err, models.ErrImageURLTooLong)

	// Exactly at the limits passes.
	_, err = svc.RegisterProperty(ctx,
		strings.Repeat("n", models.MaxPropertyNameLen),
		strings.Repeat("u", models.MaxImageURLLen))
	assert.NoError(t, err)
}

func TestRegisterPropertyIDOverflow(t *testing.T) {
	ctx := context.Background()
	svc, props := newTestRegistry()

	props.SetNextID(math.MaxUint32)

	// The last representable id is still assignable.
	p, err := svc.RegisterProperty(ctx, "Last One", "")
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), p.ID)

	_, err = svc.RegisterProperty(ctx, "One Too Many", "")
	assert.ErrorIs(t, err, models.ErrIDOverflow)
}

func TestGetPropertyNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRegistry()

	_, err := svc.GetProperty(ctx, 99)
	assert.ErrorIs(t, err, models.ErrPropertyNotFound)
}
