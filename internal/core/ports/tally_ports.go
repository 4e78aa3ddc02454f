package ports

import (
	"context"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
)

type TallyRepository interface {
	EnsureOptions(ctx context.Context, options []string) error
	List(ctx context.Context) ([]domain.TallyEntry, error)
	// Snapshot reads the tally and the vote log from one consistent view, so
	// votes committed in between cannot show up on only one side.
	Snapshot(ctx context.Context) (*domain.AuditSnapshot, error)
}

type ResultService interface {
	GetResults(ctx context.Context) (domain.Results, error)
}

type ReconcileService interface {
	Reconcile(ctx context.Context) (*domain.ReconcileReport, error)
}

type ResultsFeed interface {
	Subscribe() (<-chan domain.Results, func())
}
