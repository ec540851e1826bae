package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote types
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// Vote is one row per (voter, entry); re-voting overwrites the row
type Vote struct {
	ID        uuid.UUID `json:"id" db:"id"`
	VoterID   string    `json:"voter_id" db:"voter_id"`
	EntryID   uuid.UUID `json:"entry_id" db:"entry_id"`
	VoteType  string    `json:"vote_type" db:"vote_type"`
	IPHash    string    `json:"-" db:"ip_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CastVoteRequest struct {
	EntryID  uuid.UUID `json:"entry_id" binding:"required"`
	VoteType string    `json:"vote_type" binding:"required,oneof=upvote downvote"`
}

type VoteResponse struct {
	Vote      *Vote     `json:"vote,omitempty"`
	VoteCount VoteCount `json:"vote_count"`
}
