package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/debatearchive/backend/internal/database"
	"github.com/debatearchive/backend/internal/models"
)

type VoteRepository struct {
	db *database.DB
}

func NewVoteRepository(db *database.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert casts or overwrites the caller's vote on an entry. The
// (voter_id, entry_id) unique constraint guarantees at most one row per
// voter per entry; re-voting replaces the type instead of accumulating.
func (r *VoteRepository) Upsert(vote *models.Vote) error {
	query := `
		INSERT INTO votes (id, voter_id, entry_id, vote_type, ip_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (voter_id, entry_id)
		DO UPDATE SET vote_type = EXCLUDED.vote_type, ip_hash = EXCLUDED.ip_hash, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		uuid.New(),
		vote.VoterID,
		vote.EntryID,
		vote.VoteType,
		vote.IPHash,
	).Scan(&vote.ID, &vote.CreatedAt, &vote.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to upsert vote: %w", err)
	}

	return nil
}

// Delete removes the caller's own vote; deleting a vote that does not
// exist is a no-op
func (r *VoteRepository) Delete(voterID string, entryID uuid.UUID) error {
	query := `DELETE FROM votes WHERE voter_id = $1 AND entry_id = $2`

	if _, err := r.db.Exec(query, voterID, entryID); err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}

// Tally recomputes the aggregate for an entry via the database-side
// scoring function. Always fresh, never cached.
func (r *VoteRepository) Tally(entryID uuid.UUID) (*models.VoteCount, error) {
	query := `SELECT upvotes, downvotes, weighted_score FROM calculate_weighted_score($1)`

	count := &models.VoteCount{}
	err := r.db.QueryRow(query, entryID).Scan(&count.Upvotes, &count.Downvotes, &count.WeightedScore)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}

	return count, nil
}
