package ports

import (
	"context"
	"time"

	"agora/contexts/campus-election/credential-service/domain/entities"
	contractsv1 "agora/contracts/gen/events/v1"
)

// CredentialRepository owns credential persistence. Credentials are keyed by
// student id; a student never holds more than one.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, credential entities.Credential) error
	SaveCredential(ctx context.Context, credential entities.Credential) error
	GetCredential(ctx context.Context, studentID uint64) (entities.Credential, error)
	ListCredentials(ctx context.Context) ([]entities.Credential, error)
}

// Clock allows deterministic testing of the power growth window.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts credential/event identifier generation.
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
