package application

import (
	"context"
	"errors"
	"testing"

	"agora/contexts/campus-election/aggregate-poll/adapters/memory"
	domainerrors "agora/contexts/campus-election/aggregate-poll/domain/errors"
)

func newService(store *memory.Store) Service {
	return Service{
		Polls:  store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
	}
}

func TestCreatePollRequiresMoreThanOneCandidate(t *testing.T) {
	service := newService(memory.NewStore())

	_, err := service.CreatePoll(context.Background(), CreatePollInput{
		Name:       "Prez",
		OwnerID:    "owner-1",
		Candidates: []string{"A"},
	})
	if !errors.Is(err, domainerrors.ErrInsufficientCandidates) {
		t.Fatalf("expected ErrInsufficientCandidates, got %v", err)
	}

	poll, err := service.CreatePoll(context.Background(), CreatePollInput{
		Name:       "Prez",
		OwnerID:    "owner-1",
		Candidates: []string{"A", "B", "C"},
	})
	if err != nil {
		t.Fatalf("create poll failed: %v", err)
	}
	if len(poll.Votes) != len(poll.Candidates) {
		t.Fatalf("expected length-matched counters, got %d candidates and %d votes", len(poll.Candidates), len(poll.Votes))
	}
	for i, count := range poll.Votes {
		if count != 0 {
			t.Fatalf("expected zeroed counter at %d, got %d", i, count)
		}
	}
	if !poll.Active {
		t.Fatal("expected a fresh poll to be active")
	}
}

func TestCastVoteRejectsOutOfRangeIndex(t *testing.T) {
	store := memory.NewStore()
	service := newService(store)

	poll, err := service.CreatePoll(context.Background(), CreatePollInput{
		Name:       "Prez",
		OwnerID:    "owner-1",
		Candidates: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("create poll failed: %v", err)
	}

	for _, index := range []int{-1, 2, 100} {
		if _, err := service.CastVote(context.Background(), poll.PollID, index); !errors.Is(err, domainerrors.ErrInvalidCandidateIndex) {
			t.Fatalf("expected ErrInvalidCandidateIndex for index %d, got %v", index, err)
		}
	}

	stored, err := store.GetPoll(context.Background(), poll.PollID)
	if err != nil {
		t.Fatalf("get poll failed: %v", err)
	}
	for i, count := range stored.Votes {
		if count != 0 {
			t.Fatalf("expected counters untouched after rejected votes, got %d at %d", count, i)
		}
	}
}

func TestClosePollRequiresOwner(t *testing.T) {
	service := newService(memory.NewStore())

	poll, err := service.CreatePoll(context.Background(), CreatePollInput{
		Name:       "Prez",
		OwnerID:    "owner-1",
		Candidates: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("create poll failed: %v", err)
	}

	if _, err := service.ClosePoll(context.Background(), poll.PollID, "intruder"); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	closed, err := service.ClosePoll(context.Background(), poll.PollID, "owner-1")
	if err != nil {
		t.Fatalf("owner close failed: %v", err)
	}
	if closed.Active {
		t.Fatal("expected poll inactive after close")
	}
	// Closed is terminal.
	if _, err := service.ClosePoll(context.Background(), poll.PollID, "owner-1"); !errors.Is(err, domainerrors.ErrPollClosed) {
		t.Fatalf("expected ErrPollClosed on repeat close, got %v", err)
	}
}

func TestViewResultsOnlyAfterClose(t *testing.T) {
	service := newService(memory.NewStore())

	poll, err := service.CreatePoll(context.Background(), CreatePollInput{
		Name:       "Prez",
		OwnerID:    "owner-1",
		Candidates: []string{"A", "B", "C"},
	})
	if err != nil {
		t.Fatalf("create poll failed: %v", err)
	}

	for _, index := range []int{0, 0, 2} {
		if _, err := service.CastVote(context.Background(), poll.PollID, index); err != nil {
			t.Fatalf("cast vote at %d failed: %v", index, err)
		}
	}

	if _, err := service.ViewResults(context.Background(), poll.PollID); !errors.Is(err, domainerrors.ErrPollStillActive) {
		t.Fatalf("expected ErrPollStillActive before close, got %v", err)
	}
	if _, err := service.ClosePoll(context.Background(), poll.PollID, "owner-1"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := service.CastVote(context.Background(), poll.PollID, 1); !errors.Is(err, domainerrors.ErrPollClosed) {
		t.Fatalf("expected ErrPollClosed after close, got %v", err)
	}

	results, err := service.ViewResults(context.Background(), poll.PollID)
	if err != nil {
		t.Fatalf("view results failed: %v", err)
	}
	want := []uint64{2, 0, 1}
	if len(results.Votes) != len(want) {
		t.Fatalf("expected %d counters, got %d", len(want), len(results.Votes))
	}
	for i, count := range want {
		if results.Votes[i] != count {
			t.Fatalf("expected %d votes at index %d, got %d", count, i, results.Votes[i])
		}
	}
}

func TestPollElectionCapability(t *testing.T) {
	service := newService(memory.NewStore())

	poll, err := service.CreatePoll(context.Background(), CreatePollInput{
		Name:       "Prez",
		OwnerID:    "owner-1",
		Candidates: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("create poll failed: %v", err)
	}
	capability := PollElection{Service: service, PollID: poll.PollID}

	finalized, err := capability.Finalized(context.Background())
	if err != nil {
		t.Fatalf("finalized check failed: %v", err)
	}
	if finalized {
		t.Fatal("expected open poll to report not finalized")
	}
	if _, err := capability.Standings(context.Background()); !errors.Is(err, domainerrors.ErrPollStillActive) {
		t.Fatalf("expected ErrPollStillActive from open poll standings, got %v", err)
	}

	if _, err := service.CastVote(context.Background(), poll.PollID, 1); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if _, err := service.ClosePoll(context.Background(), poll.PollID, "owner-1"); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	finalized, err = capability.Finalized(context.Background())
	if err != nil {
		t.Fatalf("finalized check failed: %v", err)
	}
	if !finalized {
		t.Fatal("expected closed poll to report finalized")
	}
	standings, err := capability.Standings(context.Background())
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if len(standings) != 2 || standings[0].Label != "A" || standings[1].Votes != 1 {
		t.Fatalf("unexpected standings: %+v", standings)
	}
}
