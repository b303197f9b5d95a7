package ports

import (
	"context"
	"time"

	"agora/contexts/campus-election/aggregate-poll/domain/entities"
	contractsv1 "agora/contracts/gen/events/v1"
)

// PollRepository owns poll persistence. Polls are keyed by poll id.
type PollRepository interface {
	CreatePoll(ctx context.Context, poll entities.Poll) error
	SavePoll(ctx context.Context, poll entities.Poll) error
	GetPoll(ctx context.Context, pollID string) (entities.Poll, error)
	ListPolls(ctx context.Context) ([]entities.Poll, error)
}

// Clock allows deterministic testing of poll timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts poll/event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxWriter appends events in the same logical unit as the state change.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
