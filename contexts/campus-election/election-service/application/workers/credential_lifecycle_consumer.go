package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "agora/contexts/campus-election/election-service/application"
	"agora/contexts/campus-election/election-service/ports"
)

const (
	credentialIssuedTopic       = "credential.issued"
	credentialPowerUpdatedTopic = "credential.power_updated"
	credentialGraduatedTopic    = "credential.graduated"
	defaultCredentialCG         = "election-service-credential-cg"
)

// CredentialLifecycleConsumer maintains the local credential standing
// projection from credential lifecycle events, so the election rules never
// reach into the credential service directly.
type CredentialLifecycleConsumer struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Credentials   ports.CredentialProjection
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

// Start subscribes the election service to credential lifecycle events with
// dedupe semantics.
func (c CredentialLifecycleConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultCredentialCG
	}
	for _, topic := range []string{credentialIssuedTopic, credentialPowerUpdatedTopic, credentialGraduatedTopic} {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.handleCredentialEvent); err != nil {
			logger.Error("credential consumer subscribe failed",
				"event", "election_credential_consumer_subscribe_failed",
				"module", "campus-election/election-service",
				"layer", "worker",
				"topic", topic,
				"consumer_group", group,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("credential consumer subscriptions active",
		"event", "election_credential_consumer_started",
		"module", "campus-election/election-service",
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

func (c CredentialLifecycleConsumer) handleCredentialEvent(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	if alreadyProcessed, err := c.reserveEvent(ctx, event); err != nil {
		return err
	} else if alreadyProcessed {
		logger.Debug("credential event replay skipped",
			"event", "election_credential_event_replayed",
			"module", "campus-election/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}

	var payload struct {
		StudentID uint64 `json:"student_id"`
		Power     uint64 `json:"power"`
		Graduated bool   `json:"graduated"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("credential event payload decode failed",
			"event", "election_credential_event_decode_failed",
			"module", "campus-election/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}

	if err := c.Credentials.UpsertCredentialStanding(ctx, ports.CredentialStanding{
		StudentID: payload.StudentID,
		Power:     payload.Power,
		Graduated: payload.Graduated,
	}); err != nil {
		logger.Error("credential standing upsert failed",
			"event", "election_credential_standing_upsert_failed",
			"module", "campus-election/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"student_id", payload.StudentID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("credential standing projected",
		"event", "election_credential_standing_projected",
		"module", "campus-election/election-service",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"student_id", payload.StudentID,
		"power", payload.Power,
		"graduated", payload.Graduated,
	)
	return nil
}

func (c CredentialLifecycleConsumer) reserveEvent(ctx context.Context, event ports.EventEnvelope) (bool, error) {
	// ReserveEvent is used as dedupe gate for at-least-once delivery semantics.
	logger := application.ResolveLogger(c.Logger)
	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), c.now().Add(c.dedupTTL()))
	if err != nil {
		logger.Error("credential event dedupe failed",
			"event", "election_credential_event_dedupe_failed",
			"module", "campus-election/election-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return false, err
	}
	return alreadyProcessed, nil
}

func (c CredentialLifecycleConsumer) now() time.Time {
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}
	return now
}

func (c CredentialLifecycleConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}
