package entities

import "time"

// Poll is the single shared election record: candidate names and vote
// counters are parallel arrays and must stay length-matched at all times.
type Poll struct {
	PollID     string
	Name       string
	OwnerID    string
	Candidates []string
	Votes      []uint64
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ClosedAt   *time.Time
}

// Clone returns a deep copy so callers can hand out poll state without
// exposing the stored slices to mutation.
func (p Poll) Clone() Poll {
	out := p
	out.Candidates = append([]string(nil), p.Candidates...)
	out.Votes = append([]uint64(nil), p.Votes...)
	if p.ClosedAt != nil {
		closedAt := *p.ClosedAt
		out.ClosedAt = &closedAt
	}
	return out
}
