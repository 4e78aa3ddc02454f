package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
)

type VoteRepository interface {
	HasVoted(ctx context.Context, voterID uuid.UUID) (bool, error)
	// CastVote inserts the vote and increments the tally for option in a
	// single transaction.
	CastVote(ctx context.Context, vote *domain.Vote, option string) error
	Count(ctx context.Context) (int64, error)
}

type VoteInput struct {
	VoterID uuid.UUID
	Option  string
}

type VoteService interface {
	HasVoted(ctx context.Context, voterID uuid.UUID) (bool, error)
	Vote(ctx context.Context, input VoteInput) error
	Options() []string
}

type BallotCipher interface {
	Encrypt(selection string) (string, error)
	Decrypt(token string) (string, error)
}
