package commands

import (
	"context"
	"strconv"
	"strings"
	"time"

	application "agora/contexts/campus-election/election-service/application"
	"agora/contexts/campus-election/election-service/domain/entities"
	domainerrors "agora/contexts/campus-election/election-service/domain/errors"
)

// RegisterCandidateCommand is the write-model input for candidacy creation.
type RegisterCandidateCommand struct {
	StudentID string
	Name      string
	Promises  string
}

// RegisterCandidate creates a candidacy for a student whose projected
// credential power meets the eligibility threshold. Multiple candidacies by
// the same student are allowed by the upstream rules and not deduplicated.
func (uc ElectionUseCase) RegisterCandidate(ctx context.Context, cmd RegisterCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("candidate registration processing started",
		"event", "election_register_started",
		"module", "campus-election/election-service",
		"layer", "application",
		"student_id", strings.TrimSpace(cmd.StudentID),
	)

	studentID, err := parseStudentID(cmd.StudentID)
	if err != nil {
		return entities.Candidate{}, err
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidElectionInput
	}

	standing, err := uc.standing(ctx, studentID)
	if err != nil {
		return entities.Candidate{}, err
	}
	if standing.Graduated || standing.Power < entities.CandidacyPowerThreshold {
		logger.Warn("candidate registration rejected below threshold",
			"event", "election_register_ineligible",
			"module", "campus-election/election-service",
			"layer", "application",
			"student_id", strconv.FormatUint(studentID, 10),
			"power", standing.Power,
			"graduated", standing.Graduated,
		)
		return entities.Candidate{}, domainerrors.ErrIneligibleCandidate
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	now := uc.now()
	candidate := entities.Candidate{
		CandidateID: candidateID,
		StudentID:   studentID,
		Name:        strings.TrimSpace(cmd.Name),
		Promises:    strings.TrimSpace(cmd.Promises),
		VoteCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Election.CreateCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}
	if err := uc.appendElectionEvent(ctx, "candidate.registered", studentID, now, map[string]any{
		"candidate_id": candidate.CandidateID,
		"student_id":   candidate.StudentID,
		"name":         candidate.Name,
		"occurred_at":  now.Format(time.RFC3339),
	}); err != nil {
		return entities.Candidate{}, err
	}

	logger.Info("candidate registered",
		"event", "election_candidate_registered",
		"module", "campus-election/election-service",
		"layer", "application",
		"candidate_id", candidate.CandidateID,
		"student_id", strconv.FormatUint(studentID, 10),
	)
	return candidate, nil
}
