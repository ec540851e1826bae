package repository

import (
	"fmt"

	"github.com/debatearchive/backend/internal/database"
)

// VerifierRepository manages the allow-list of hashed identifiers holding
// moderation capability. Only digests ever reach this table.
type VerifierRepository struct {
	db *database.DB
}

func NewVerifierRepository(db *database.DB) *VerifierRepository {
	return &VerifierRepository{db: db}
}

// Exists reports whether a hashed identifier is on the allow-list
func (r *VerifierRepository) Exists(userIDHash string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM verifier_allowlist WHERE user_id_hash = $1)`

	var exists bool
	if err := r.db.QueryRow(query, userIDHash).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check allowlist: %w", err)
	}
	return exists, nil
}

// Add grants capability to a hashed identifier, recording who granted it.
// Re-granting an existing verifier is a no-op.
func (r *VerifierRepository) Add(userIDHash, addedByHash string) error {
	query := `
		INSERT INTO verifier_allowlist (user_id_hash, added_by_hash, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id_hash) DO NOTHING
	`

	if _, err := r.db.Exec(query, userIDHash, addedByHash); err != nil {
		return fmt.Errorf("failed to add verifier: %w", err)
	}
	return nil
}

// Remove revokes capability by hash match. Returns ErrNotFound when the
// hash was not on the list.
func (r *VerifierRepository) Remove(userIDHash string) error {
	query := `DELETE FROM verifier_allowlist WHERE user_id_hash = $1`

	result, err := r.db.Exec(query, userIDHash)
	if err != nil {
		return fmt.Errorf("failed to remove verifier: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read removal result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
