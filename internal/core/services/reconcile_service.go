package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type reconcileService struct {
	tallyRepo ports.TallyRepository
	cipher    ports.BallotCipher
	now       func() time.Time
}

func NewReconcileService(tallyRepo ports.TallyRepository, cipher ports.BallotCipher) ports.ReconcileService {
	return &reconcileService{
		tallyRepo: tallyRepo,
		cipher:    cipher,
		now:       time.Now,
	}
}

// Reconcile decrypts the whole vote log and compares it with the tally table.
// Both come from one snapshot, so live voting cannot produce false drift.
// It only reports; nothing is repaired.
func (s *reconcileService) Reconcile(ctx context.Context) (*domain.ReconcileReport, error) {
	snapshot, err := s.tallyRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit snapshot: %w", err)
	}
	entries, tokens := snapshot.Tally, snapshot.EncryptedSelections

	report := &domain.ReconcileReport{
		Tally:         make(map[string]int64, len(entries)),
		VoteLog:       make(map[string]int64),
		Discrepancies: []domain.Discrepancy{},
		GeneratedAt:   s.now(),
	}

	for _, e := range entries {
		report.Tally[e.Option] = e.Count
		report.TotalTally += e.Count
	}

	for _, token := range tokens {
		option, err := s.cipher.Decrypt(token)
		if err != nil {
			report.Undecryptable++
			report.VoteLog[domain.InvalidVoteLabel]++
			continue
		}
		report.VoteLog[option]++
	}
	report.TotalVotes = int64(len(tokens))

	seen := make(map[string]struct{})
	for option := range report.Tally {
		seen[option] = struct{}{}
	}
	for option := range report.VoteLog {
		if option != domain.InvalidVoteLabel {
			seen[option] = struct{}{}
		}
	}

	for option := range seen {
		if report.Tally[option] != report.VoteLog[option] {
			report.Discrepancies = append(report.Discrepancies, domain.Discrepancy{
				Option:     option,
				TallyCount: report.Tally[option],
				LogCount:   report.VoteLog[option],
			})
		}
	}
	sort.Slice(report.Discrepancies, func(i, j int) bool {
		return report.Discrepancies[i].Option < report.Discrepancies[j].Option
	})

	return report, nil
}
