package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"agora/contexts/campus-election/election-service/adapters/memory"
	"agora/contexts/campus-election/election-service/domain/entities"
	domainerrors "agora/contexts/campus-election/election-service/domain/errors"
	"agora/contexts/campus-election/election-service/ports"
)

func newUseCase(store *memory.Store) ElectionUseCase {
	return ElectionUseCase{
		Election:    store,
		Credentials: store,
		Outbox:      store,
		Clock:       store,
		IDGen:       store,
	}
}

func TestRegisterCandidateRequiresThresholdPower(t *testing.T) {
	for power := uint64(0); power < 3; power++ {
		t.Run(fmt.Sprintf("power_%d", power), func(t *testing.T) {
			store := memory.NewStore()
			store.SetCredentialStanding(ports.CredentialStanding{StudentID: 1, Power: power})
			uc := newUseCase(store)

			_, err := uc.RegisterCandidate(context.Background(), RegisterCandidateCommand{
				StudentID: "1",
				Name:      "Sam",
			})
			if !errors.Is(err, domainerrors.ErrIneligibleCandidate) {
				t.Fatalf("expected ErrIneligibleCandidate at power %d, got %v", power, err)
			}
		})
	}

	store := memory.NewStore()
	store.SetCredentialStanding(ports.CredentialStanding{StudentID: 1, Power: 3})
	uc := newUseCase(store)
	candidate, err := uc.RegisterCandidate(context.Background(), RegisterCandidateCommand{
		StudentID: "1",
		Name:      "Sam",
		Promises:  "Longer library hours",
	})
	if err != nil {
		t.Fatalf("register at threshold failed: %v", err)
	}
	if candidate.VoteCount != 0 {
		t.Fatalf("expected fresh candidate with zero votes, got %d", candidate.VoteCount)
	}
}

func TestRegisterCandidateAllowsDuplicateCandidacy(t *testing.T) {
	store := memory.NewStore()
	store.SetCredentialStanding(ports.CredentialStanding{StudentID: 4, Power: 5})
	uc := newUseCase(store)

	first, err := uc.RegisterCandidate(context.Background(), RegisterCandidateCommand{StudentID: "4", Name: "Kim"})
	if err != nil {
		t.Fatalf("first candidacy failed: %v", err)
	}
	second, err := uc.RegisterCandidate(context.Background(), RegisterCandidateCommand{StudentID: "4", Name: "Kim again"})
	if err != nil {
		t.Fatalf("second candidacy failed: %v", err)
	}
	if first.CandidateID == second.CandidateID {
		t.Fatalf("expected distinct candidacies, both got %s", first.CandidateID)
	}
}

func TestCastVoteAddsCredentialPower(t *testing.T) {
	store := memory.NewStore()
	store.SetCredentialStanding(ports.CredentialStanding{StudentID: 1, Power: 3})
	uc := newUseCase(store)

	candidate, err := uc.RegisterCandidate(context.Background(), RegisterCandidateCommand{StudentID: "1", Name: "Sam"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Votes with powers 2, 5, and 1 in arbitrary order must sum to 8.
	powers := []uint64{2, 5, 1}
	for i, power := range powers {
		voterID := uint64(100 + i)
		store.SetCredentialStanding(ports.CredentialStanding{StudentID: voterID, Power: power})
		result, err := uc.CastVote(context.Background(), CastVoteCommand{
			VoterStudentID: fmt.Sprintf("%d", voterID),
			CandidateID:    candidate.CandidateID,
		})
		if err != nil {
			t.Fatalf("cast vote %d failed: %v", i, err)
		}
		if result.Vote.Weight != power {
			t.Fatalf("expected vote weight %d, got %d", power, result.Vote.Weight)
		}
	}

	updated, err := store.GetCandidate(context.Background(), candidate.CandidateID)
	if err != nil {
		t.Fatalf("get candidate failed: %v", err)
	}
	if updated.VoteCount != 8 {
		t.Fatalf("expected vote count 8, got %d", updated.VoteCount)
	}
}

func TestCastVoteRejectsGraduatedCredential(t *testing.T) {
	store := memory.NewStore()
	store.SetCredentialStanding(ports.CredentialStanding{StudentID: 1, Power: 4})
	store.SetCredentialStanding(ports.CredentialStanding{StudentID: 2, Graduated: true})
	uc := newUseCase(store)

	candidate, err := uc.RegisterCandidate(context.Background(), RegisterCandidateCommand{StudentID: "1", Name: "Sam"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err = uc.CastVote(context.Background(), CastVoteCommand{
		VoterStudentID: "2",
		CandidateID:    candidate.CandidateID,
	})
	if !errors.Is(err, domainerrors.ErrVoterGraduated) {
		t.Fatalf("expected ErrVoterGraduated, got %v", err)
	}
}

func TestCastVoteRejectsUnknownCandidate(t *testing.T) {
	store := memory.NewStore()
	store.SetCredentialStanding(ports.CredentialStanding{StudentID: 1, Power: 1})
	uc := newUseCase(store)

	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterStudentID: "1",
		CandidateID:    "missing",
	})
	if !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestTallyRecordsResultsInRegistrationOrderAndConsumes(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)

	names := []string{"First", "Second", "Third"}
	candidateIDs := make([]string, 0, len(names))
	for i, name := range names {
		studentID := uint64(10 + i)
		store.SetCredentialStanding(ports.CredentialStanding{StudentID: studentID, Power: 3})
		candidate, err := uc.RegisterCandidate(context.Background(), RegisterCandidateCommand{
			StudentID: fmt.Sprintf("%d", studentID),
			Name:      name,
		})
		if err != nil {
			t.Fatalf("register %q failed: %v", name, err)
		}
		candidateIDs = append(candidateIDs, candidate.CandidateID)
	}

	store.SetCredentialStanding(ports.CredentialStanding{StudentID: 99, Power: 2})
	for i := 0; i < 3; i++ {
		if _, err := uc.CastVote(context.Background(), CastVoteCommand{
			VoterStudentID: "99",
			CandidateID:    candidateIDs[1],
		}); err != nil {
			t.Fatalf("cast vote failed: %v", err)
		}
	}

	tally, err := uc.Tally(context.Background())
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.ConsumedCandidates != 3 || tally.ConsumedVotes != 3 {
		t.Fatalf("expected 3 candidates and 3 votes consumed, got %+v", tally)
	}
	if len(tally.Results) != 3 {
		t.Fatalf("expected one result per candidate, got %d", len(tally.Results))
	}
	for i, result := range tally.Results {
		if result.CandidateName != names[i] {
			t.Fatalf("expected registration order preserved at %d, got %q", i, result.CandidateName)
		}
	}
	if tally.Results[1].TotalVotes != 6 {
		t.Fatalf("expected total 6 for repeated weighted votes, got %d", tally.Results[1].TotalVotes)
	}

	// The batch is consumed; a second tally has nothing to work with.
	if _, err := uc.Tally(context.Background()); !errors.Is(err, domainerrors.ErrNothingToTally) {
		t.Fatalf("expected ErrNothingToTally after consumption, got %v", err)
	}
	if _, err := store.GetCandidate(context.Background(), candidateIDs[0]); !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected candidates destroyed after tally, got %v", err)
	}
}

type failingResultRepository struct {
	*memory.Store
	saveErr error
}

func (r failingResultRepository) SaveResult(_ context.Context, _ entities.ElectionResult) error {
	return r.saveErr
}

func TestTallyKeepsLedgerWhenResultWriteFails(t *testing.T) {
	store := memory.NewStore()
	store.SetCredentialStanding(ports.CredentialStanding{StudentID: 7, Power: 4})
	uc := newUseCase(store)

	candidate, err := uc.RegisterCandidate(context.Background(), RegisterCandidateCommand{
		StudentID: "7",
		Name:      "Robin",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterStudentID: "7",
		CandidateID:    candidate.CandidateID,
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}

	saveErr := errors.New("result write refused")
	broken := uc
	broken.Election = failingResultRepository{Store: store, saveErr: saveErr}
	if _, err := broken.Tally(context.Background()); !errors.Is(err, saveErr) {
		t.Fatalf("expected result write error, got %v", err)
	}

	// The batch survives the failed write and tallies cleanly on retry.
	if _, err := store.GetCandidate(context.Background(), candidate.CandidateID); err != nil {
		t.Fatalf("expected candidate retained after failed tally, got %v", err)
	}
	votes, err := store.ListVotes(context.Background())
	if err != nil || len(votes) != 1 {
		t.Fatalf("expected retained vote, got %d votes, err %v", len(votes), err)
	}
	tally, err := uc.Tally(context.Background())
	if err != nil {
		t.Fatalf("retry tally failed: %v", err)
	}
	if tally.ConsumedCandidates != 1 || tally.ConsumedVotes != 1 {
		t.Fatalf("expected retry to consume the full batch, got %+v", tally)
	}
}
