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

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// CastVote writes the vote and bumps the tally in one transaction. The
// votes_voter_id_key constraint settles concurrent casts for the same voter.
func (r *voteRepository) CastVote(ctx context.Context, vote *domain.Vote, option string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM votes WHERE voter_id = $1`, vote.VoterID).Scan(&exists)
	switch {
	case err == nil:
		return domain.ErrAlreadyVoted
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to check existing vote: %w", err)
	}

	queryVote := `
		INSERT INTO votes (id, voter_id, encrypted_selection, cast_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryVote, vote.ID, vote.VoterID, vote.EncryptedSelection, vote.CastAt)
	if err != nil {
		if isUniqueViolation(err, "votes_voter_id_key") {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	queryTally := `
		UPDATE tallies
		SET vote_count = vote_count + 1, last_updated_at = NOW()
		WHERE option = $1
	`
	res, err := tx.ExecContext(ctx, queryTally, option)
	if err != nil {
		return fmt.Errorf("failed to update tally: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read tally update result: %w", err)
	}
	if affected != 1 {
		return domain.ErrInvalidSelection
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err, "votes_voter_id_key") {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *voteRepository) HasVoted(ctx context.Context, voterID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE voter_id = $1 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, voterID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func listEncryptedSelections(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT encrypted_selection FROM votes ORDER BY cast_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return tokens, nil
}

func (r *voteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}
