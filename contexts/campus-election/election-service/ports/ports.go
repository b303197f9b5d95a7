package ports

import (
	"context"
	"time"

	"agora/contexts/campus-election/election-service/domain/entities"
	contractsv1 "agora/contracts/gen/events/v1"
)

// CredentialStanding is the local projection of a voter credential, fed by
// credential lifecycle events. Only the fields the election rules read are
// projected.
type CredentialStanding struct {
	StudentID uint64
	Power     uint64
	Graduated bool
}

// CredentialProjection exposes projected credential standing to the election
// rules and lets the lifecycle consumer maintain it.
type CredentialProjection interface {
	GetCredentialStanding(ctx context.Context, studentID uint64) (CredentialStanding, bool, error)
	UpsertCredentialStanding(ctx context.Context, standing CredentialStanding) error
}

// ElectionRepository owns candidates, votes, and results for the weighted
// election. Votes and their candidate increments commit as one unit, and
// ConsumeForTally removes both collections atomically so a batch can be
// tallied exactly once.
type ElectionRepository interface {
	CreateCandidate(ctx context.Context, candidate entities.Candidate) error
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidates(ctx context.Context) ([]entities.Candidate, error)
	// RecordVote persists the vote and adds its weight to the candidate tally
	// in the same step.
	RecordVote(ctx context.Context, vote entities.Vote) (entities.Candidate, error)
	ListVotes(ctx context.Context) ([]entities.Vote, error)
	// ConsumeForTally returns candidates in registration order and destroys
	// the vote and candidate collections.
	ConsumeForTally(ctx context.Context) ([]entities.Candidate, []entities.Vote, error)
	SaveResult(ctx context.Context, result entities.ElectionResult) error
	ListResults(ctx context.Context) ([]entities.ElectionResult, error)
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts record/event identifier generation.
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

// EventSubscriber attaches consumer-group handlers to a topic.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

// EventDedupStore provides idempotent processing guarantees for consumed
// events.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}
