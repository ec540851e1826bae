package models

import (
	"github.com/google/uuid"
)

// Archive event types pushed over the live feed
const (
	EventEntryNew     = "entry.new"
	EventEntryStatus  = "entry.status"
	EventEntryDeleted = "entry.deleted"
	EventTallyUpdated = "tally.updated"
)

// ArchiveEvent is the envelope published on Redis and fanned out to
// connected dashboard clients
type ArchiveEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// EntryStatusEvent announces a moderation change
type EntryStatusEvent struct {
	EntryID        uuid.UUID `json:"entry_id"`
	VerifiedStatus string    `json:"verified_status"`
	IsLocked       bool      `json:"is_locked"`
}

// TallyEvent announces a fresh tally after a vote mutation
type TallyEvent struct {
	EntryID   uuid.UUID `json:"entry_id"`
	VoteCount VoteCount `json:"vote_count"`
}
