package models

import "time"

// VerifierAllowlistEntry stores only one-way hashes, never raw identifiers
type VerifierAllowlistEntry struct {
	UserIDHash  string    `json:"user_id_hash" db:"user_id_hash"`
	AddedByHash string    `json:"added_by_hash" db:"added_by_hash"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type AddVerifierRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type VerifierStatusResponse struct {
	IsVerifier bool   `json:"is_verifier"`
	UserIDHash string `json:"user_id_hash"`
}
