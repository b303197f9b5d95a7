package errors

import "errors"

var (
	ErrInvalidPollInput       = errors.New("invalid poll input")
	ErrInsufficientCandidates = errors.New("poll requires more than one candidate")
	ErrInvalidCandidateIndex  = errors.New("candidate index out of range")
	ErrPollClosed             = errors.New("poll is closed")
	ErrPollStillActive        = errors.New("poll is still active")
	ErrNotOwner               = errors.New("caller does not own poll")
	ErrPollNotFound           = errors.New("poll not found")
	ErrConflict               = errors.New("poll state conflict")
)
