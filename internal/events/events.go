package events

import "context"

// Event types
const (
	EventPropertyRegistered = "property_registered"
	EventPropertyFunded     = "property_funded"
	EventPaymentWithdrawn   = "payment_withdrawn"
	EventMasterWithdrawn    = "master_withdrawn"
	EventDepositCredited    = "deposit_credited"
	EventVaultShortfall     = "vault_shortfall"
)

// StreamEscrow carries every escrow state change, the WS hub and any
// external consumer subscribe here.
const StreamEscrow = "events:escrow"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// NopPublisher drops events, used by one-shot tools and tests that do
// not care about the stream.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, stream string, event Event) error { return nil }
