package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/debatearchive/backend/internal/database"
	"github.com/debatearchive/backend/internal/models"
)

// RevisionRepository reads the append-only audit trail. Writes happen
// inside the entry repository's transactions.
type RevisionRepository struct {
	db *database.DB
}

func NewRevisionRepository(db *database.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

// ListByEntry returns the audit trail for an entry, newest first
func (r *RevisionRepository) ListByEntry(entryID uuid.UUID, limit int) ([]models.EntryRevision, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, entry_id, revised_by, changes_json, created_at
		FROM entry_revisions
		WHERE entry_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, entryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	revisions := []models.EntryRevision{}
	for rows.Next() {
		var rev models.EntryRevision
		var changes []byte
		if err := rows.Scan(&rev.ID, &rev.EntryID, &rev.RevisedBy, &changes, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		if err := json.Unmarshal(changes, &rev.ChangesJSON); err != nil {
			return nil, fmt.Errorf("failed to decode revision changes: %w", err)
		}
		revisions = append(revisions, rev)
	}
	return revisions, nil
}
