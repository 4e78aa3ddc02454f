package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	IdentityLength = 12
	NameMaxLength  = 100 // characters, matches voters.name
	DateLayout     = "2006-01-02"

	credentialSeparator = ":"
)

type Voter struct {
	ID                uuid.UUID `json:"id"`
	Identity          string    `json:"identity"`
	Name              string    `json:"name"`
	DateOfBirth       time.Time `json:"date_of_birth"`
	SecretHash        string    `json:"-"`
	CredentialPayload string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

// VoterSummary is what a voter sees on the identity verification step.
type VoterSummary struct {
	ID          uuid.UUID `json:"voter_id"`
	Identity    string    `json:"identity"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"dob"`
}

func (v *Voter) Summary() VoterSummary {
	return VoterSummary{
		ID:          v.ID,
		Identity:    v.Identity,
		Name:        v.Name,
		DateOfBirth: v.DateOfBirth.Format(DateLayout),
	}
}

func ValidateIdentity(identity string) error {
	if len(identity) != IdentityLength {
		return ErrInvalidIdentity
	}
	for _, c := range identity {
		if c < '0' || c > '9' {
			return ErrInvalidIdentity
		}
	}
	return nil
}

func NewCredentialPayload(identity, secretHash string) string {
	return identity + credentialSeparator + secretHash
}

// ParseCredentialPayload splits a payload into identity and secret hash.
// Anything other than exactly two non-empty parts is rejected.
func ParseCredentialPayload(payload string) (identity string, secretHash string, err error) {
	parts := strings.Split(payload, credentialSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidCredential
	}
	return parts[0], parts[1], nil
}
