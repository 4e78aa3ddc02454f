package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type voterService struct {
	repo   ports.VoterRepository
	codec  ports.CredentialCodec
	logger *zap.Logger
	now    func() time.Time
}

func NewVoterService(repo ports.VoterRepository, codec ports.CredentialCodec, logger *zap.Logger) ports.VoterService {
	return &voterService{
		repo:   repo,
		codec:  codec,
		logger: logger,
		now:    time.Now,
	}
}

func (s *voterService) Register(ctx context.Context, input ports.RegisterInput) (*ports.Registration, error) {
	identity := strings.TrimSpace(input.Identity)
	if err := domain.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > domain.NameMaxLength {
		return nil, domain.ErrInvalidName
	}

	dob, err := time.Parse(domain.DateLayout, strings.TrimSpace(input.DateOfBirth))
	if err != nil || dob.After(s.now()) {
		return nil, domain.ErrInvalidDateOfBirth
	}

	if input.Secret == "" {
		return nil, domain.ErrInvalidSecret
	}

	exists, err := s.repo.ExistsByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to check identity: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateIdentity
	}

	secretHash := hashSecret(input.Secret)

	// Encode first so a codec failure never leaves a voter without a credential.
	image, err := s.codec.Encode(identity, secretHash)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credential: %w", err)
	}

	voter := &domain.Voter{
		ID:                uuid.New(),
		Identity:          identity,
		Name:              name,
		DateOfBirth:       dob,
		SecretHash:        secretHash,
		CredentialPayload: domain.NewCredentialPayload(identity, secretHash),
		CreatedAt:         s.now(),
	}

	if err := s.repo.Create(ctx, voter); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create voter: %w", err)
	}

	s.logger.Info("voter registered", zap.Stringer("voter_id", voter.ID))

	return &ports.Registration{Voter: voter, Credential: image}, nil
}

func (s *voterService) Authenticate(ctx context.Context, payload string) (*domain.VoterSummary, error) {
	identity, secretHash, err := domain.ParseCredentialPayload(payload)
	if err != nil {
		return nil, err
	}

	voter, err := s.repo.GetByCredential(ctx, identity, secretHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get voter: %w", err)
	}
	if voter == nil {
		return nil, domain.ErrInvalidCredential
	}

	summary := voter.Summary()
	return &summary, nil
}

func (s *voterService) AuthenticateImage(ctx context.Context, image []byte) (*domain.VoterSummary, error) {
	payload, ok := s.codec.Decode(image)
	if !ok {
		s.logger.Debug("no credential found in uploaded image")
		return nil, domain.ErrInvalidCredential
	}
	return s.Authenticate(ctx, payload)
}

func (s *voterService) CredentialImage(ctx context.Context, voterID uuid.UUID) ([]byte, error) {
	voter, err := s.lookup(ctx, voterID)
	if err != nil {
		return nil, err
	}

	identity, secretHash, err := domain.ParseCredentialPayload(voter.CredentialPayload)
	if err != nil {
		return nil, fmt.Errorf("stored credential for voter %s is malformed: %w", voterID, err)
	}

	image, err := s.codec.Encode(identity, secretHash)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credential: %w", err)
	}
	return image, nil
}

func (s *voterService) GetVoter(ctx context.Context, voterID uuid.UUID) (*domain.VoterSummary, error) {
	voter, err := s.lookup(ctx, voterID)
	if err != nil {
		return nil, err
	}
	summary := voter.Summary()
	return &summary, nil
}

func (s *voterService) lookup(ctx context.Context, voterID uuid.UUID) (*domain.Voter, error) {
	voter, err := s.repo.GetByID(ctx, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get voter: %w", err)
	}
	if voter == nil {
		return nil, domain.ErrVoterNotFound
	}
	return voter, nil
}

func hashSecret(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}
