// Package election defines the small capability both election pipelines
// expose: the credential-weighted election and the aggregate poll implement
// it independently, without sharing state machines.
package election

import "context"

// Standing is one candidate's final vote total. Order follows the producing
// pipeline (registration order for the weighted election, candidate index
// order for the aggregate poll); ranking is a consumer concern.
type Standing struct {
	Label string
	Votes uint64
}

// Election is the read capability of a finished election. Standings must fail
// until Finalized reports true.
type Election interface {
	Finalized(ctx context.Context) (bool, error)
	Standings(ctx context.Context) ([]Standing, error)
}
