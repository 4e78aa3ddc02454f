package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
)

type VoterRepository interface {
	Create(ctx context.Context, voter *domain.Voter) error
	ExistsByIdentity(ctx context.Context, identity string) (bool, error)
	GetByCredential(ctx context.Context, identity, secretHash string) (*domain.Voter, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Voter, error)
	Count(ctx context.Context) (int64, error)
}

type RegisterInput struct {
	Identity    string
	Name        string
	DateOfBirth string
	Secret      string
}

type Registration struct {
	Voter      *domain.Voter
	Credential []byte // PNG
}

type VoterService interface {
	Register(ctx context.Context, input RegisterInput) (*Registration, error)
	Authenticate(ctx context.Context, payload string) (*domain.VoterSummary, error)
	AuthenticateImage(ctx context.Context, image []byte) (*domain.VoterSummary, error)
	CredentialImage(ctx context.Context, voterID uuid.UUID) ([]byte, error)
	GetVoter(ctx context.Context, voterID uuid.UUID) (*domain.VoterSummary, error)
}

// CredentialCodec turns a credential payload into a scannable image and back.
type CredentialCodec interface {
	Encode(identity, secretHash string) ([]byte, error)
	// Decode reports false when no credential could be read from the image.
	Decode(image []byte) (string, bool)
}
