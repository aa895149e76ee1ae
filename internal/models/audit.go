package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	Actor      string    `json:"actor,omitempty"` // ledger address; empty for system jobs
	ActorType  string    `json:"actor_type"`      // contributor/master/system
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	Meta       any       `json:"meta,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
