package services

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/events"
	"github.com/brickfund/backend/internal/models"
)

// PropertyStore persists registry entries and owns the sequential id
// counter.
type PropertyStore interface {
	Create(ctx context.Context, name, imageURL string) (*models.Property, error)
	GetByID(ctx context.Context, id uint32) (*models.Property, error)
	List(ctx context.Context, limit, offset int) ([]models.Property, error)
}

// RegistryService assigns property ids and stores their metadata. The
// escrow core never consults it, property ids are opaque keys there.
type RegistryService struct {
	props     PropertyStore
	audit     AuditStore
	publisher events.Publisher
	log       *zap.Logger
}

func NewRegistryService(props PropertyStore, audit AuditStore, publisher events.Publisher, log *zap.Logger) *RegistryService {
	return &RegistryService{props: props, audit: audit, publisher: publisher, log: log}
}

// RegisterProperty validates the metadata length limits and assigns
// the next sequential id.
func (s *RegistryService) RegisterProperty(ctx context.Context, name, imageURL string) (*models.Property, error) {
	if err := models.ValidateMetadata(name, imageURL); err != nil {
		return nil, err
	}

	p, err := s.props.Create(ctx, name, imageURL)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorType:  "system",
		Action:     "property_registered",
		EntityType: "property",
		EntityID:   strconv.FormatUint(uint64(p.ID), 10),
		Meta:       map[string]any{"name": p.Name},
	})

	_ = s.publisher.Publish(ctx, events.StreamEscrow, events.Event{
		Type: events.EventPropertyRegistered,
		Payload: map[string]any{
			"property_id": p.ID,
			"name":        p.Name,
		},
	})

	s.log.Info("property registered",
		zap.Uint32("property_id", p.ID),
		zap.String("name", p.Name),
	)

	return p, nil
}

func (s *RegistryService) GetProperty(ctx context.Context, id uint32) (*models.Property, error) {
	return s.props.GetByID(ctx, id)
}

func (s *RegistryService) ListProperties(ctx context.Context, limit, offset int) ([]models.Property, error) {
	return s.props.List(ctx, limit, offset)
}
