package domain

import "errors"

var (
	ErrInvalidIdentity    = errors.New("identity number must be exactly 12 digits")
	ErrInvalidName        = errors.New("name is required")
	ErrInvalidDateOfBirth = errors.New("invalid date of birth")
	ErrInvalidSecret      = errors.New("secret is required")
	ErrDuplicateIdentity  = errors.New("identity number is already registered")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrVoterNotFound      = errors.New("voter not found")
	ErrInvalidSelection   = errors.New("invalid option")
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrInternal           = errors.New("internal server error")
)

// IsValidationError reports whether err is caused by malformed input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidIdentity) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidDateOfBirth) ||
		errors.Is(err, ErrInvalidSecret) ||
		errors.Is(err, ErrInvalidSelection)
}
