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

// CastVoteCommand is the write-model input for weighted vote recording.
type CastVoteCommand struct {
	VoterStudentID string
	CandidateID    string
}

// CastVoteResult carries the immutable vote and the candidate state after
// the increment.
type CastVoteResult struct {
	Vote      entities.Vote
	Candidate entities.Candidate
}

// CastVote records one weighted vote: the candidate tally grows by the
// voter's current projected power, not by a flat unit. Graduated credentials
// are rejected. Repeat voting by one credential is allowed by the upstream
// rules; each call is independent and additive.
func (uc ElectionUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("vote cast processing started",
		"event", "election_cast_started",
		"module", "campus-election/election-service",
		"layer", "application",
		"voter_student_id", strings.TrimSpace(cmd.VoterStudentID),
		"candidate_id", strings.TrimSpace(cmd.CandidateID),
	)

	voterID, err := parseStudentID(cmd.VoterStudentID)
	if err != nil {
		return CastVoteResult{}, err
	}
	standing, err := uc.standing(ctx, voterID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if standing.Graduated {
		logger.Warn("vote cast rejected for graduated credential",
			"event", "election_cast_graduated",
			"module", "campus-election/election-service",
			"layer", "application",
			"voter_student_id", strconv.FormatUint(voterID, 10),
		)
		return CastVoteResult{}, domainerrors.ErrVoterGraduated
	}

	candidate, err := uc.Election.GetCandidate(ctx, strings.TrimSpace(cmd.CandidateID))
	if err != nil {
		return CastVoteResult{}, err
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	now := uc.now()
	vote := entities.Vote{
		VoteID:             voteID,
		VoterStudentID:     voterID,
		CandidateStudentID: candidate.StudentID,
		CandidateID:        candidate.CandidateID,
		Weight:             standing.Power,
		CastAt:             now,
	}
	updated, err := uc.Election.RecordVote(ctx, vote)
	if err != nil {
		return CastVoteResult{}, err
	}
	if err := uc.appendElectionEvent(ctx, "vote.cast", voterID, now, map[string]any{
		"vote_id":              vote.VoteID,
		"voter_student_id":     vote.VoterStudentID,
		"candidate_id":         vote.CandidateID,
		"candidate_student_id": vote.CandidateStudentID,
		"weight":               vote.Weight,
		"vote_count":           updated.VoteCount,
		"occurred_at":          now.Format(time.RFC3339),
	}); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "election_vote_cast",
		"module", "campus-election/election-service",
		"layer", "application",
		"vote_id", vote.VoteID,
		"voter_student_id", strconv.FormatUint(voterID, 10),
		"candidate_id", candidate.CandidateID,
		"weight", vote.Weight,
	)
	return CastVoteResult{Vote: vote, Candidate: updated}, nil
}
