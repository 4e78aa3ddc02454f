package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

type voterRepository struct {
	db *sql.DB
}

func NewVoterRepository(db *sql.DB) ports.VoterRepository {
	return &voterRepository{db: db}
}

func (r *voterRepository) Create(ctx context.Context, voter *domain.Voter) error {
	query := `
		INSERT INTO voters (id, identity, name, date_of_birth, secret_hash, credential_payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		voter.ID, voter.Identity, voter.Name, voter.DateOfBirth,
		voter.SecretHash, voter.CredentialPayload, voter.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "voters_identity_key") {
			return domain.ErrDuplicateIdentity
		}
		return fmt.Errorf("failed to insert voter: %w", err)
	}
	return nil
}

func (r *voterRepository) ExistsByIdentity(ctx context.Context, identity string) (bool, error) {
	query := `SELECT 1 FROM voters WHERE identity = $1 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, identity).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check identity: %w", err)
	}
	return true, nil
}

func (r *voterRepository) GetByCredential(ctx context.Context, identity, secretHash string) (*domain.Voter, error) {
	query := `
		SELECT id, identity, name, date_of_birth, secret_hash, credential_payload, created_at
		FROM voters
		WHERE identity = $1 AND secret_hash = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, identity, secretHash))
}

func (r *voterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Voter, error) {
	query := `
		SELECT id, identity, name, date_of_birth, secret_hash, credential_payload, created_at
		FROM voters
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *voterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return count, nil
}

// scanOne returns nil, nil when the row does not exist.
func (r *voterRepository) scanOne(row *sql.Row) (*domain.Voter, error) {
	voter := &domain.Voter{}
	err := row.Scan(
		&voter.ID,
		&voter.Identity,
		&voter.Name,
		&voter.DateOfBirth,
		&voter.SecretHash,
		&voter.CredentialPayload,
		&voter.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get voter: %w", err)
	}
	return voter, nil
}
