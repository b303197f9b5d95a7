package unit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	credentialservice "agora/contexts/campus-election/credential-service"
	credentialworkers "agora/contexts/campus-election/credential-service/application/workers"
	credentialhttp "agora/contexts/campus-election/credential-service/transport/http"
	electionservice "agora/contexts/campus-election/election-service"
	electionmemory "agora/contexts/campus-election/election-service/adapters/memory"
	electionworkers "agora/contexts/campus-election/election-service/application/workers"
	electionports "agora/contexts/campus-election/election-service/ports"
	electionhttp "agora/contexts/campus-election/election-service/transport/http"
)

type stubSubscriber struct {
	handlers map[string]func(context.Context, electionports.EventEnvelope) error
}

func (s *stubSubscriber) Subscribe(
	_ context.Context,
	topic string,
	_ string,
	handler func(context.Context, electionports.EventEnvelope) error,
) error {
	if s.handlers == nil {
		s.handlers = map[string]func(context.Context, electionports.EventEnvelope) error{}
	}
	s.handlers[topic] = handler
	return nil
}

// forwardingPublisher plays the broker role: everything the credential relay
// publishes lands on the matching election consumer handler.
type forwardingPublisher struct {
	subscriber *stubSubscriber
}

func (p forwardingPublisher) Publish(ctx context.Context, topic string, event electionports.EventEnvelope) error {
	handler := p.subscriber.handlers[topic]
	if handler == nil {
		return nil
	}
	return handler(ctx, event)
}

func TestCredentialLifecycleEventsFeedElectionProjection(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	now := start
	credentials := credentialservice.NewInMemoryModule(nil, nil)
	credentials.Store.SetNow(func() time.Time { return now })
	electionStore := electionmemory.NewStore()

	sub := &stubSubscriber{}
	consumer := electionworkers.CredentialLifecycleConsumer{
		Subscriber:  sub,
		Dedup:       electionStore,
		Credentials: electionStore,
		Clock:       electionStore,
		DedupTTL:    7 * 24 * time.Hour,
	}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start credential lifecycle consumer failed: %v", err)
	}
	for _, topic := range []string{"credential.issued", "credential.power_updated", "credential.graduated"} {
		if sub.handlers[topic] == nil {
			t.Fatalf("expected handler registered for %s", topic)
		}
	}

	if _, err := credentials.Handler.IssueCredentialHandler(context.Background(), credentialhttp.IssueCredentialRequest{
		StudentID: "5",
		Name:      "Noor",
	}); err != nil {
		t.Fatalf("issue credential failed: %v", err)
	}
	now = start.AddDate(1, 0, 0)
	if _, err := credentials.Handler.GrowPowerHandler(context.Background(), "5"); err != nil {
		t.Fatalf("grow power failed: %v", err)
	}

	relay := credentialworkers.OutboxRelay{
		Outbox:    credentials.Store,
		Publisher: forwardingPublisher{subscriber: sub},
		Clock:     credentials.Store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("outbox relay failed: %v", err)
	}

	standing, found, err := electionStore.GetCredentialStanding(context.Background(), 5)
	if err != nil {
		t.Fatalf("read standing failed: %v", err)
	}
	if !found {
		t.Fatal("expected standing projected from credential events")
	}
	if standing.Power != 2 || standing.Graduated {
		t.Fatalf("expected projected power 2 for active credential, got %+v", standing)
	}

	// Relaying again must not re-apply events thanks to event dedup.
	pending, err := credentials.Store.ListPendingOutbox(context.Background(), 20)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected outbox drained after relay, got %d rows", len(pending))
	}

	if _, err := credentials.Handler.GraduateHandler(context.Background(), "5"); err != nil {
		t.Fatalf("graduate failed: %v", err)
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay failed: %v", err)
	}
	standing, _, err = electionStore.GetCredentialStanding(context.Background(), 5)
	if err != nil {
		t.Fatalf("read standing after graduation failed: %v", err)
	}
	if !standing.Graduated || standing.Power != 0 {
		t.Fatalf("expected graduated standing with zero power, got %+v", standing)
	}
}

func TestCredentialEventReplayIsSkipped(t *testing.T) {
	electionStore := electionmemory.NewStore()
	sub := &stubSubscriber{}
	consumer := electionworkers.CredentialLifecycleConsumer{
		Subscriber:  sub,
		Dedup:       electionStore,
		Credentials: electionStore,
		Clock:       electionStore,
		DedupTTL:    time.Hour,
	}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start consumer failed: %v", err)
	}

	payload, _ := json.Marshal(map[string]any{
		"student_id": 9,
		"power":      3,
		"graduated":  false,
	})
	event := electionports.EventEnvelope{
		EventID:   "event-credential-issued-9",
		EventType: "credential.issued",
		Data:      payload,
	}
	handler := sub.handlers["credential.issued"]
	if err := handler(context.Background(), event); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	// Drift the projection, then replay: the stale event must not win.
	if err := electionStore.UpsertCredentialStanding(context.Background(), electionports.CredentialStanding{
		StudentID: 9,
		Power:     5,
	}); err != nil {
		t.Fatalf("upsert standing failed: %v", err)
	}
	if err := handler(context.Background(), event); err != nil {
		t.Fatalf("replayed delivery failed: %v", err)
	}
	standing, _, err := electionStore.GetCredentialStanding(context.Background(), 9)
	if err != nil {
		t.Fatalf("read standing failed: %v", err)
	}
	if standing.Power != 5 {
		t.Fatalf("expected replay skipped leaving power 5, got %d", standing.Power)
	}
}

// capturingPublisher records everything a relay hands to the broker.
type capturingPublisher struct {
	topics []string
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, _ electionports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	return nil
}

func TestElectionLedgerEventsReachTheRelayPublisher(t *testing.T) {
	election := electionservice.NewInMemoryModule(nil)
	election.Store.SetCredentialStanding(electionports.CredentialStanding{StudentID: 11, Power: 4})

	candidate, err := election.Handler.RegisterCandidateHandler(context.Background(), electionhttp.RegisterCandidateRequest{
		StudentID: "11",
		Name:      "Morgan",
	})
	if err != nil {
		t.Fatalf("register candidate failed: %v", err)
	}
	if _, err := election.Handler.CastVoteHandler(context.Background(), electionhttp.CastVoteRequest{
		VoterStudentID: "11",
		CandidateID:    candidate.CandidateID,
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if _, err := election.Handler.TallyHandler(context.Background()); err != nil {
		t.Fatalf("tally failed: %v", err)
	}

	// The relay must drain the same outbox the commands append to.
	publisher := &capturingPublisher{}
	relay := electionworkers.OutboxRelay{
		Outbox:    election.Store,
		Publisher: publisher,
		Clock:     election.Store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("election outbox relay failed: %v", err)
	}

	want := map[string]int{
		"candidate.registered": 1,
		"vote.cast":            1,
		"election.tallied":     1,
	}
	got := map[string]int{}
	for _, topic := range publisher.topics {
		got[topic]++
	}
	for topic, count := range want {
		if got[topic] != count {
			t.Fatalf("expected %d %s event(s) published, got %d (all: %v)", count, topic, got[topic], publisher.topics)
		}
	}

	pending, err := election.Store.ListPendingOutbox(context.Background(), 20)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected election outbox drained after relay, got %d rows", len(pending))
	}
}
