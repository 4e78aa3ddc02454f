package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type voteService struct {
	repo    ports.VoteRepository
	cipher  ports.BallotCipher
	options []string
	allowed map[string]struct{}
	logger  *zap.Logger
	now     func() time.Time
}

func NewVoteService(repo ports.VoteRepository, cipher ports.BallotCipher, options []string, logger *zap.Logger) ports.VoteService {
	allowed := make(map[string]struct{}, len(options))
	for _, opt := range options {
		allowed[opt] = struct{}{}
	}

	return &voteService{
		repo:    repo,
		cipher:  cipher,
		options: append([]string(nil), options...),
		allowed: allowed,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *voteService) Options() []string {
	return append([]string(nil), s.options...)
}

func (s *voteService) HasVoted(ctx context.Context, voterID uuid.UUID) (bool, error) {
	hasVoted, err := s.repo.HasVoted(ctx, voterID)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return hasVoted, nil
}

// Vote records a single vote for the voter. The pre-check below only saves a
// round trip; the unique constraint on votes.voter_id is what enforces it.
func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) error {
	if _, ok := s.allowed[input.Option]; !ok {
		return domain.ErrInvalidSelection
	}

	hasVoted, err := s.HasVoted(ctx, input.VoterID)
	if err != nil {
		return err
	}
	if hasVoted {
		return domain.ErrAlreadyVoted
	}

	encrypted, err := s.cipher.Encrypt(input.Option)
	if err != nil {
		return fmt.Errorf("failed to encrypt selection: %w", err)
	}

	vote := &domain.Vote{
		ID:                 uuid.New(),
		VoterID:            input.VoterID,
		EncryptedSelection: encrypted,
		CastAt:             s.now(),
	}

	if err := s.repo.CastVote(ctx, vote, input.Option); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) || errors.Is(err, domain.ErrInvalidSelection) {
			return err
		}
		s.logger.Error("vote rolled back", zap.Stringer("voter_id", input.VoterID), zap.Error(err))
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	s.logger.Info("vote cast", zap.Stringer("voter_id", input.VoterID))
	return nil
}
