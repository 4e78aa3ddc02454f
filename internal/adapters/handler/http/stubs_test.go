package http

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type stubVoterService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*ports.Registration, error)
	imageFn    func(ctx context.Context, image []byte) (*domain.VoterSummary, error)
	summary    *domain.VoterSummary
	credential []byte
}

func (s *stubVoterService) Register(ctx context.Context, input ports.RegisterInput) (*ports.Registration, error) {
	return s.registerFn(ctx, input)
}

func (s *stubVoterService) Authenticate(ctx context.Context, payload string) (*domain.VoterSummary, error) {
	return s.imageFn(ctx, []byte(payload))
}

func (s *stubVoterService) AuthenticateImage(ctx context.Context, image []byte) (*domain.VoterSummary, error) {
	return s.imageFn(ctx, image)
}

func (s *stubVoterService) CredentialImage(_ context.Context, _ uuid.UUID) ([]byte, error) {
	return s.credential, nil
}

func (s *stubVoterService) GetVoter(_ context.Context, _ uuid.UUID) (*domain.VoterSummary, error) {
	if s.summary == nil {
		return nil, domain.ErrVoterNotFound
	}
	return s.summary, nil
}

type stubVoteService struct {
	mu    sync.Mutex
	voted map[uuid.UUID]string
}

func newStubVoteService() *stubVoteService {
	return &stubVoteService{voted: make(map[uuid.UUID]string)}
}

func (s *stubVoteService) HasVoted(_ context.Context, voterID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.voted[voterID]
	return ok, nil
}

func (s *stubVoteService) Vote(_ context.Context, input ports.VoteInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if input.Option != "DMK" && input.Option != "BJP" {
		return domain.ErrInvalidSelection
	}
	if _, ok := s.voted[input.VoterID]; ok {
		return domain.ErrAlreadyVoted
	}
	s.voted[input.VoterID] = input.Option
	return nil
}

func (s *stubVoteService) Options() []string { return []string{"DMK", "BJP"} }

type stubResults struct {
	results domain.Results
	err     error
}

func (s stubResults) GetResults(context.Context) (domain.Results, error) { return s.results, s.err }

// stubFeed hands every subscriber one snapshot and keeps the channel open.
type stubFeed struct {
	snapshot domain.Results
}

func (f stubFeed) Subscribe() (<-chan domain.Results, func()) {
	ch := make(chan domain.Results, 1)
	ch <- f.snapshot
	return ch, func() {}
}

type stubReconcile struct {
	report *domain.ReconcileReport
}

func (s stubReconcile) Reconcile(context.Context) (*domain.ReconcileReport, error) {
	return s.report, nil
}

func sampleResults() domain.Results {
	return domain.NewResults([]domain.TallyEntry{
		{Option: "DMK", Count: 1},
		{Option: "BJP", Count: 0},
	}, time.Date(2024, 4, 19, 10, 0, 0, 0, time.UTC))
}
