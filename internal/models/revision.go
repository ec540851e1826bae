package models

import (
	"time"

	"github.com/google/uuid"
)

// Revision actions
const (
	RevisionActionModerated = "moderated"
	RevisionActionDeleted   = "deleted"
)

// EntryRevision is an immutable audit row for a moderator mutation
type EntryRevision struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	EntryID     uuid.UUID      `json:"entry_id" db:"entry_id"`
	RevisedBy   string         `json:"revised_by" db:"revised_by"`
	ChangesJSON map[string]any `json:"changes_json" db:"changes_json"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// ModerationChange captures before/after of both moderation fields
type ModerationChange struct {
	Action    string    `json:"action"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	OldLocked bool      `json:"old_locked"`
	NewLocked bool      `json:"new_locked"`
	Timestamp time.Time `json:"timestamp"`
}

// DeletionSnapshot preserves the full entry state before a delete
type DeletionSnapshot struct {
	Action       string    `json:"action"`
	DeletedEntry Entry     `json:"deleted_entry"`
	Timestamp    time.Time `json:"timestamp"`
}
