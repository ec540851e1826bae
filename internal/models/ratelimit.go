package models

import (
	"time"

	"github.com/google/uuid"
)

// Rate-limited action types
const (
	ActionSubmitEntry = "submit_entry"
	ActionVote        = "vote"
)

// RateLimitRecord is append-only; rows are only ever counted, never updated
type RateLimitRecord struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserIDHash *string   `json:"user_id_hash,omitempty" db:"user_id_hash"`
	IPHash     *string   `json:"ip_hash,omitempty" db:"ip_hash"`
	ActionType string    `json:"action_type" db:"action_type"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
