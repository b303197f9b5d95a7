package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	credentialservice "agora/contexts/campus-election/credential-service"
	credentialhttp "agora/contexts/campus-election/credential-service/transport/http"
	electionservice "agora/contexts/campus-election/election-service"
	electionerrors "agora/contexts/campus-election/election-service/domain/errors"
	electionports "agora/contexts/campus-election/election-service/ports"
	electionhttp "agora/contexts/campus-election/election-service/transport/http"
)

// syncStanding copies the credential state into the election projection the
// way the lifecycle consumer would in a running worker.
func syncStanding(t *testing.T, credentials credentialservice.Module, election electionservice.Module, studentID string, numericID uint64) {
	t.Helper()
	resp, err := credentials.Handler.GetCredentialHandler(context.Background(), studentID)
	if err != nil {
		t.Fatalf("read credential %s failed: %v", studentID, err)
	}
	election.Store.SetCredentialStanding(electionports.CredentialStanding{
		StudentID: numericID,
		Power:     resp.Power,
		Graduated: resp.Graduated,
	})
}

func TestCampusElectionEndToEnd(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	now := start
	credentials := credentialservice.NewInMemoryModule(nil, nil)
	credentials.Store.SetNow(func() time.Time { return now })
	election := electionservice.NewInMemoryModule(nil)

	issued, err := credentials.Handler.IssueCredentialHandler(context.Background(), credentialhttp.IssueCredentialRequest{
		StudentID: "7",
		Name:      "Riley",
	})
	if err != nil {
		t.Fatalf("issue credential failed: %v", err)
	}
	if issued.Power != 1 {
		t.Fatalf("expected initial power 1, got %d", issued.Power)
	}

	syncStanding(t, credentials, election, "7", 7)
	_, err = election.Handler.RegisterCandidateHandler(context.Background(), electionhttp.RegisterCandidateRequest{
		StudentID: "7",
		Name:      "Riley",
	})
	if !errors.Is(err, electionerrors.ErrIneligibleCandidate) {
		t.Fatalf("expected ErrIneligibleCandidate at power 1, got %v", err)
	}

	// Three growth windows take the credential to power 4.
	for year := 1; year <= 3; year++ {
		now = start.AddDate(year, 0, 0)
		grown, err := credentials.Handler.GrowPowerHandler(context.Background(), "7")
		if err != nil {
			t.Fatalf("grow power year %d failed: %v", year, err)
		}
		if !grown.Grown {
			t.Fatalf("expected growth at year %d", year)
		}
	}
	syncStanding(t, credentials, election, "7", 7)

	candidate, err := election.Handler.RegisterCandidateHandler(context.Background(), electionhttp.RegisterCandidateRequest{
		StudentID: "7",
		Name:      "Riley",
		Promises:  "Free printing",
	})
	if err != nil {
		t.Fatalf("register at power 4 failed: %v", err)
	}

	// A second voter accrues one growth window, so their vote weighs 2.
	now = start
	if _, err := credentials.Handler.IssueCredentialHandler(context.Background(), credentialhttp.IssueCredentialRequest{
		StudentID: "8",
		Name:      "Sasha",
	}); err != nil {
		t.Fatalf("issue second credential failed: %v", err)
	}
	now = start.AddDate(1, 0, 0)
	if _, err := credentials.Handler.GrowPowerHandler(context.Background(), "8"); err != nil {
		t.Fatalf("grow second credential failed: %v", err)
	}
	syncStanding(t, credentials, election, "8", 8)

	vote, err := election.Handler.CastVoteHandler(context.Background(), electionhttp.CastVoteRequest{
		VoterStudentID: "8",
		CandidateID:    candidate.CandidateID,
	})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if vote.Weight != 2 {
		t.Fatalf("expected vote weight 2, got %d", vote.Weight)
	}
	if vote.CandidateVoteCount != 2 {
		t.Fatalf("expected candidate vote count 2, got %d", vote.CandidateVoteCount)
	}

	tally, err := election.Handler.TallyHandler(context.Background())
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if len(tally.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(tally.Results))
	}
	if tally.Results[0].TotalVotes != 2 {
		t.Fatalf("expected tallied total 2, got %d", tally.Results[0].TotalVotes)
	}
	if tally.ConsumedVotes != 1 || tally.ConsumedCandidates != 1 {
		t.Fatalf("expected one vote and one candidate consumed, got %+v", tally)
	}
}

func TestGraduatedCredentialIsInertAcrossServices(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	now := start
	credentials := credentialservice.NewInMemoryModule(nil, nil)
	credentials.Store.SetNow(func() time.Time { return now })
	election := electionservice.NewInMemoryModule(nil)

	if _, err := credentials.Handler.IssueCredentialHandler(context.Background(), credentialhttp.IssueCredentialRequest{
		StudentID: "21",
		Name:      "Morgan",
	}); err != nil {
		t.Fatalf("issue credential failed: %v", err)
	}
	graduated, err := credentials.Handler.GraduateHandler(context.Background(), "21")
	if err != nil {
		t.Fatalf("graduate failed: %v", err)
	}
	if !graduated.Graduated || graduated.Power != 0 {
		t.Fatalf("expected graduated credential with zero power, got %+v", graduated)
	}

	// Growth after graduation is a silent no-op.
	now = start.AddDate(2, 0, 0)
	grown, err := credentials.Handler.GrowPowerHandler(context.Background(), "21")
	if err != nil {
		t.Fatalf("grow after graduation failed: %v", err)
	}
	if grown.Grown || grown.Credential.Power != 0 {
		t.Fatalf("expected no growth after graduation, got %+v", grown)
	}

	syncStanding(t, credentials, election, "21", 21)
	if _, err := election.Handler.RegisterCandidateHandler(context.Background(), electionhttp.RegisterCandidateRequest{
		StudentID: "21",
		Name:      "Morgan",
	}); !errors.Is(err, electionerrors.ErrIneligibleCandidate) {
		t.Fatalf("expected graduated student barred from candidacy, got %v", err)
	}
}
