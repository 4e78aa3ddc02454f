package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type resultService struct {
	repo ports.TallyRepository
	now  func() time.Time
}

func NewResultService(repo ports.TallyRepository) ports.ResultService {
	return &resultService{
		repo: repo,
		now:  time.Now,
	}
}

// GetResults returns the tally ordered by count descending, ties by option.
func (s *resultService) GetResults(ctx context.Context) (domain.Results, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return domain.Results{}, fmt.Errorf("failed to list tally: %w", err)
	}

	slices.SortStableFunc(entries, func(a, b domain.TallyEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Option, b.Option)
	})

	return domain.NewResults(entries, s.now()), nil
}
