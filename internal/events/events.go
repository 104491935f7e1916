package events

import "context"

// StreamCommitments is the pub/sub channel the indexer publishes on and the
// API's websocket hub subscribes to.
const StreamCommitments = "events:commitment"

// Event types
const (
	EventCommitmentCreated       = "commitment_created"
	EventCommitmentStatusChanged = "commitment_status_changed"
)

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
