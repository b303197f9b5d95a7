package errors

import "errors"

var (
	ErrInvalidElectionInput = errors.New("invalid election input")
	ErrValueOutOfRange      = errors.New("value out of representable range")
	ErrCredentialNotFound   = errors.New("voter credential not found")
	ErrIneligibleCandidate  = errors.New("credential power below candidacy threshold")
	ErrVoterGraduated       = errors.New("graduated credential cannot vote")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrNothingToTally       = errors.New("no candidates available to tally")
	ErrConflict             = errors.New("election record conflict")
)
