package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
)

var testOptions = []string{"AIADMK", "BJP", "DMK", "TVK", "PMK", "VCK", "DMDK"}

// memStore mimics the postgres adapter, including its unique constraints and
// the all-or-nothing vote transaction.
type memStore struct {
	mu     sync.Mutex
	voters map[uuid.UUID]*domain.Voter
	votes  map[uuid.UUID]*domain.Vote
	tally  map[string]int64

	failCast error
	failList error
}

func newMemStore(options ...string) *memStore {
	s := &memStore{
		voters: make(map[uuid.UUID]*domain.Voter),
		votes:  make(map[uuid.UUID]*domain.Vote),
		tally:  make(map[string]int64),
	}
	for _, opt := range options {
		s.tally[opt] = 0
	}
	return s
}

func (s *memStore) Create(_ context.Context, voter *domain.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voters {
		if v.Identity == voter.Identity {
			return domain.ErrDuplicateIdentity
		}
	}
	cp := *voter
	s.voters[voter.ID] = &cp
	return nil
}

func (s *memStore) ExistsByIdentity(_ context.Context, identity string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voters {
		if v.Identity == identity {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) GetByCredential(_ context.Context, identity, secretHash string) (*domain.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voters {
		if v.Identity == identity && v.SecretHash == secretHash {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voters[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *memStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.voters)), nil
}

// memVotes exposes the vote side of memStore; the method sets of the two
// repository ports overlap on Count.
type memVotes struct{ *memStore }

func (s memVotes) HasVoted(_ context.Context, voterID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.votes[voterID]
	return ok, nil
}

func (s memVotes) CastVote(_ context.Context, vote *domain.Vote, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCast != nil {
		return s.failCast
	}
	if _, ok := s.votes[vote.VoterID]; ok {
		return domain.ErrAlreadyVoted
	}
	if _, ok := s.tally[option]; !ok {
		return domain.ErrInvalidSelection
	}
	cp := *vote
	s.votes[vote.VoterID] = &cp
	s.tally[option]++
	return nil
}

func (s memVotes) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.votes)), nil
}

func (s *memStore) EnsureOptions(_ context.Context, options []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, opt := range options {
		if _, ok := s.tally[opt]; !ok {
			s.tally[opt] = 0
		}
	}
	return nil
}

func (s *memStore) List(_ context.Context) ([]domain.TallyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	entries := make([]domain.TallyEntry, 0, len(s.tally))
	for opt, n := range s.tally {
		entries = append(entries, domain.TallyEntry{Option: opt, Count: n})
	}
	return entries, nil
}

func (s *memStore) Snapshot(_ context.Context) (*domain.AuditSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	snapshot := &domain.AuditSnapshot{Tally: []domain.TallyEntry{}, EncryptedSelections: []string{}}
	for opt, n := range s.tally {
		snapshot.Tally = append(snapshot.Tally, domain.TallyEntry{Option: opt, Count: n})
	}
	for _, v := range s.votes {
		snapshot.EncryptedSelections = append(snapshot.EncryptedSelections, v.EncryptedSelection)
	}
	return snapshot, nil
}

func (s *memStore) setFailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList = err
}

func (s *memStore) tallySum() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, n := range s.tally {
		total += n
	}
	return total
}

// textCodec stands in for the QR codec: the "image" is the payload itself.
type textCodec struct{}

func (textCodec) Encode(identity, secretHash string) ([]byte, error) {
	return []byte(domain.NewCredentialPayload(identity, secretHash)), nil
}

func (textCodec) Decode(image []byte) (string, bool) {
	if !strings.Contains(string(image), ":") {
		return "", false
	}
	return string(image), true
}

// prefixCipher is a reversible stand-in for the fernet cipher.
type prefixCipher struct{}

var errBadToken = errors.New("bad token")

func (prefixCipher) Encrypt(selection string) (string, error) { return "enc:" + selection, nil }

func (prefixCipher) Decrypt(token string) (string, error) {
	if !strings.HasPrefix(token, "enc:") {
		return "", errBadToken
	}
	return strings.TrimPrefix(token, "enc:"), nil
}
