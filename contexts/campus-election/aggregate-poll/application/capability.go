package application

import (
	"context"

	"agora/contexts/campus-election/election"
)

// PollElection exposes one poll through the shared election capability
// without merging the poll state machine into the weighted model.
type PollElection struct {
	Service Service
	PollID  string
}

func (p PollElection) Finalized(ctx context.Context) (bool, error) {
	poll, err := p.Service.GetPoll(ctx, p.PollID)
	if err != nil {
		return false, err
	}
	return !poll.Active, nil
}

func (p PollElection) Standings(ctx context.Context) ([]election.Standing, error) {
	results, err := p.Service.ViewResults(ctx, p.PollID)
	if err != nil {
		return nil, err
	}
	standings := make([]election.Standing, 0, len(results.Candidates))
	for i, candidate := range results.Candidates {
		standings = append(standings, election.Standing{
			Label: candidate,
			Votes: results.Votes[i],
		})
	}
	return standings, nil
}

var _ election.Election = PollElection{}
