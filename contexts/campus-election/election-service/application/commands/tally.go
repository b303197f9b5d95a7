package commands

import (
	"context"
	"time"

	application "agora/contexts/campus-election/election-service/application"
	"agora/contexts/campus-election/election-service/domain/entities"
	domainerrors "agora/contexts/campus-election/election-service/domain/errors"
)

// TallyResult reports what the tally recorded and consumed.
type TallyResult struct {
	Results            []entities.ElectionResult
	ConsumedVotes      int
	ConsumedCandidates int
}

// Tally converts the accumulated vote counts into immutable results, one per
// candidate in registration order, and consumes the vote and candidate
// collections so the batch can never be re-tallied. Results carry no ranking.
func (uc ElectionUseCase) Tally(ctx context.Context) (TallyResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("tally processing started",
		"event", "election_tally_started",
		"module", "campus-election/election-service",
		"layer", "application",
	)

	// Results are written from a snapshot first; the ledger is consumed only
	// once every result and event is recorded, so a failed write leaves the
	// batch intact for a retry.
	candidates, err := uc.Election.ListCandidates(ctx)
	if err != nil {
		return TallyResult{}, err
	}
	votes, err := uc.Election.ListVotes(ctx)
	if err != nil {
		return TallyResult{}, err
	}
	if len(candidates) == 0 {
		logger.Warn("tally rejected with empty candidate set",
			"event", "election_tally_empty",
			"module", "campus-election/election-service",
			"layer", "application",
		)
		return TallyResult{}, domainerrors.ErrNothingToTally
	}

	now := uc.now()
	results := make([]entities.ElectionResult, 0, len(candidates))
	for _, candidate := range candidates {
		resultID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return TallyResult{}, err
		}
		result := entities.ElectionResult{
			ResultID:      resultID,
			StudentID:     candidate.StudentID,
			CandidateName: candidate.Name,
			TotalVotes:    candidate.VoteCount,
			RecordedAt:    now,
		}
		if err := uc.Election.SaveResult(ctx, result); err != nil {
			return TallyResult{}, err
		}
		if err := uc.appendElectionEvent(ctx, "election.tallied", candidate.StudentID, now, map[string]any{
			"result_id":    result.ResultID,
			"candidate_id": candidate.CandidateID,
			"student_id":   candidate.StudentID,
			"total_votes":  result.TotalVotes,
			"occurred_at":  now.Format(time.RFC3339),
		}); err != nil {
			return TallyResult{}, err
		}
		results = append(results, result)
	}

	if _, _, err := uc.Election.ConsumeForTally(ctx); err != nil {
		return TallyResult{}, err
	}

	logger.Info("tally recorded",
		"event", "election_tally_recorded",
		"module", "campus-election/election-service",
		"layer", "application",
		"result_count", len(results),
		"consumed_votes", len(votes),
	)
	return TallyResult{
		Results:            results,
		ConsumedVotes:      len(votes),
		ConsumedCandidates: len(candidates),
	}, nil
}
