package errors

import "errors"

var (
	ErrInvalidCredentialInput = errors.New("invalid credential input")
	ErrValueOutOfRange        = errors.New("value out of representable range")
	ErrCredentialExists       = errors.New("student already holds a credential")
	ErrCredentialNotFound     = errors.New("credential not found")
	ErrConflict               = errors.New("credential conflict")
)
