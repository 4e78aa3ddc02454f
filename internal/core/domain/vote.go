package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID                 uuid.UUID `json:"id"`
	VoterID            uuid.UUID `json:"voter_id"`
	EncryptedSelection string    `json:"-"`
	CastAt             time.Time `json:"cast_at"`
}
