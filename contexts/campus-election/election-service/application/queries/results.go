package queries

import (
	"context"

	"agora/contexts/campus-election/election-service/domain/entities"
	domainerrors "agora/contexts/campus-election/election-service/domain/errors"
	"agora/contexts/campus-election/election-service/ports"

	"agora/contexts/campus-election/election"
)

// ResultsUseCase serves read-only views of the weighted election. It also
// satisfies the shared election capability once a tally has been recorded.
type ResultsUseCase struct {
	Election ports.ElectionRepository
}

func (uc ResultsUseCase) Candidates(ctx context.Context) ([]entities.Candidate, error) {
	return uc.Election.ListCandidates(ctx)
}

func (uc ResultsUseCase) Results(ctx context.Context) ([]entities.ElectionResult, error) {
	return uc.Election.ListResults(ctx)
}

// Finalized reports whether the terminal tally has produced results.
func (uc ResultsUseCase) Finalized(ctx context.Context) (bool, error) {
	results, err := uc.Election.ListResults(ctx)
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}

// Standings exposes recorded results through the shared capability. It fails
// until the tally has run, mirroring the aggregate poll's closed-only reads.
func (uc ResultsUseCase) Standings(ctx context.Context) ([]election.Standing, error) {
	results, err := uc.Election.ListResults(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domainerrors.ErrNothingToTally
	}
	standings := make([]election.Standing, 0, len(results))
	for _, result := range results {
		standings = append(standings, election.Standing{
			Label: result.CandidateName,
			Votes: result.TotalVotes,
		})
	}
	return standings, nil
}

var _ election.Election = ResultsUseCase{}
