package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

// EnsureOptions creates a zero tally row for every option that has none.
// Existing counts are left alone.
func (r *tallyRepository) EnsureOptions(ctx context.Context, options []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tallies (option, vote_count)
		VALUES ($1, 0)
		ON CONFLICT (option) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		if _, err := stmt.ExecContext(ctx, opt); err != nil {
			return fmt.Errorf("failed to insert option %q: %w", opt, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *tallyRepository) List(ctx context.Context) ([]domain.TallyEntry, error) {
	return listTally(ctx, r.db)
}

// Snapshot runs both reads in one read-only REPEATABLE READ transaction.
func (r *tallyRepository) Snapshot(ctx context.Context) (*domain.AuditSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	entries, err := listTally(ctx, tx)
	if err != nil {
		return nil, err
	}

	tokens, err := listEncryptedSelections(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &domain.AuditSnapshot{Tally: entries, EncryptedSelections: tokens}, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listTally(ctx context.Context, q querier) ([]domain.TallyEntry, error) {
	query := `
		SELECT option, vote_count, last_updated_at
		FROM tallies
		ORDER BY vote_count DESC, option ASC
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tally: %w", err)
	}
	defer rows.Close()

	entries := []domain.TallyEntry{}
	for rows.Next() {
		var e domain.TallyEntry
		if err := rows.Scan(&e.Option, &e.Count, &e.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tally: %w", err)
	}
	return entries, nil
}
