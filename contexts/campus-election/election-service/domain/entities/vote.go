package entities

import "time"

// Vote is an immutable record of one weighted cast. A credential may cast any
// number of votes over time; each record is independent and additive.
type Vote struct {
	VoteID             string
	VoterStudentID     uint64
	CandidateStudentID uint64
	CandidateID        string
	Weight             uint64
	CastAt             time.Time
}
