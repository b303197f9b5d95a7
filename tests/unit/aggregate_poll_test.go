package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	aggregatepoll "agora/contexts/campus-election/aggregate-poll"
	pollerrors "agora/contexts/campus-election/aggregate-poll/domain/errors"
	pollhttp "agora/contexts/campus-election/aggregate-poll/transport/http"
)

func TestAggregatePollEndToEnd(t *testing.T) {
	module := aggregatepoll.NewInMemoryModule(nil)

	poll, err := module.Handler.CreatePollHandler(context.Background(), pollhttp.CreatePollRequest{
		Name:       "Prez",
		OwnerID:    "owner-1",
		Candidates: []string{"A", "B", "C"},
	})
	if err != nil {
		t.Fatalf("create poll failed: %v", err)
	}
	if len(poll.Votes) != 3 {
		t.Fatalf("expected three zeroed counters, got %v", poll.Votes)
	}

	for _, index := range []int{0, 0, 2} {
		if _, err := module.Handler.CastVoteHandler(context.Background(), poll.PollID, pollhttp.CastPollVoteRequest{
			CandidateIndex: index,
		}); err != nil {
			t.Fatalf("cast vote at index %d failed: %v", index, err)
		}
	}

	if _, err := module.Handler.ViewResultsHandler(context.Background(), poll.PollID); !errors.Is(err, pollerrors.ErrPollStillActive) {
		t.Fatalf("expected results blocked before close, got %v", err)
	}
	if _, err := module.Handler.ClosePollHandler(context.Background(), poll.PollID, pollhttp.ClosePollRequest{
		CallerID: "intruder",
	}); !errors.Is(err, pollerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for non-owner close, got %v", err)
	}
	if _, err := module.Handler.ClosePollHandler(context.Background(), poll.PollID, pollhttp.ClosePollRequest{
		CallerID: "owner-1",
	}); err != nil {
		t.Fatalf("owner close failed: %v", err)
	}

	results, err := module.Handler.ViewResultsHandler(context.Background(), poll.PollID)
	if err != nil {
		t.Fatalf("view results failed: %v", err)
	}
	want := []uint64{2, 0, 1}
	for i, count := range want {
		if results.Votes[i] != count {
			t.Fatalf("expected %v, got %v", want, results.Votes)
		}
	}
}

func TestAggregatePollEmitsLifecycleEvents(t *testing.T) {
	module := aggregatepoll.NewInMemoryModule(nil)

	poll, err := module.Handler.CreatePollHandler(context.Background(), pollhttp.CreatePollRequest{
		Name:       "Club budget",
		OwnerID:    "owner-2",
		Candidates: []string{"Keep", "Cut"},
	})
	if err != nil {
		t.Fatalf("create poll failed: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(context.Background(), poll.PollID, pollhttp.CastPollVoteRequest{
		CandidateIndex: 1,
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if _, err := module.Handler.ClosePollHandler(context.Background(), poll.PollID, pollhttp.ClosePollRequest{
		CallerID: "owner-2",
	}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 20)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	seen := map[string]bool{}
	for _, message := range pending {
		var envelope struct {
			EventType    string `json:"event_type"`
			PartitionKey string `json:"partition_key"`
		}
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			t.Fatalf("decode outbox envelope failed: %v", err)
		}
		if envelope.PartitionKey != poll.PollID {
			t.Fatalf("expected events partitioned by poll id, got %q", envelope.PartitionKey)
		}
		seen[envelope.EventType] = true
	}
	for _, eventType := range []string{"poll.created", "poll.vote_cast", "poll.closed"} {
		if !seen[eventType] {
			t.Fatalf("expected %s in outbox, got %v", eventType, seen)
		}
	}
}
