package entities

import "time"

// ElectionResult is the immutable per-candidate outcome produced by the
// tally. TotalVotes equals the candidate's VoteCount at tally time; results
// carry no ranking, ordering by totals is a consumer concern.
type ElectionResult struct {
	ResultID      string
	StudentID     uint64
	CandidateName string
	TotalVotes    uint64
	RecordedAt    time.Time
}
