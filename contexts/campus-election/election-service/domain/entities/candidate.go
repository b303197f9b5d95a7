package entities

import "time"

// CandidacyPowerThreshold is the minimum projected credential power required
// to register as a candidate ("junior/senior" standing).
const CandidacyPowerThreshold = 3

// Candidate is a registered candidacy owned by one student. VoteCount only
// grows during the voting phase and is consumed, together with the vote
// ledger, by the tally.
//
// Nothing forbids one student from registering several candidacies; the
// upstream rules permit it and the port keeps that behavior.
type Candidate struct {
	CandidateID string
	StudentID   uint64
	Name        string
	Promises    string
	VoteCount   uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
