package models

import (
	"time"

	"github.com/google/uuid"
)

// Moderation states for an entry
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the moderation states
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusVerified || s == StatusRejected
}

type Entry struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Question       string    `json:"question" db:"question"`
	AnswerSummary  *string   `json:"answer_summary,omitempty" db:"answer_summary"`
	VideoID        string    `json:"video_id" db:"video_id"`
	StartSeconds   int       `json:"start_seconds" db:"start_seconds"`
	SubmittedBy    string    `json:"submitted_by" db:"submitted_by"`
	VerifiedStatus string    `json:"verified_status" db:"verified_status"`
	IsLocked       bool      `json:"is_locked" db:"is_locked"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type Stat struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	SourceURL   *string   `json:"source_url,omitempty" db:"source_url"`
}

type BibleVerse struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Book    string    `json:"book" db:"book"`
	Chapter int       `json:"chapter" db:"chapter"`
	Verse   int       `json:"verse" db:"verse"`
	Text    *string   `json:"text,omitempty" db:"text"`
}

// VoteCount is the tally for one entry, recomputed on demand
type VoteCount struct {
	Upvotes       int64   `json:"upvotes"`
	Downvotes     int64   `json:"downvotes"`
	WeightedScore float64 `json:"weighted_score"`
}

// EntryWithRelations is the list/detail representation with joined children
type EntryWithRelations struct {
	Entry
	Stats       []Stat       `json:"stats"`
	BibleVerses []BibleVerse `json:"bible_verses"`
	VoteCount   *VoteCount   `json:"vote_count,omitempty"`
}

type StatInput struct {
	Description string  `json:"description" binding:"required"`
	SourceURL   *string `json:"source_url,omitempty"`
}

type VerseInput struct {
	Book    string  `json:"book" binding:"required"`
	Chapter int     `json:"chapter" binding:"required,min=1"`
	Verse   int     `json:"verse" binding:"required,min=1"`
	Text    *string `json:"text,omitempty"`
}

// VerseRangeInput is an inclusive range the server expands into single verses
type VerseRangeInput struct {
	Book         string  `json:"book" binding:"required"`
	StartChapter int     `json:"start_chapter" binding:"required,min=1"`
	StartVerse   int     `json:"start_verse" binding:"required,min=1"`
	EndChapter   *int    `json:"end_chapter,omitempty"`
	EndVerse     *int    `json:"end_verse,omitempty"`
	Text         *string `json:"text,omitempty"`
}

type SubmitEntryRequest struct {
	Question      string            `json:"question" binding:"required,max=2000"`
	AnswerSummary *string           `json:"answer_summary,omitempty"`
	YouTubeURL    string            `json:"youtube_url" binding:"required"`
	Stats         []StatInput       `json:"stats,omitempty"`
	BibleVerses   []VerseInput      `json:"bible_verses,omitempty"`
	VerseRanges   []VerseRangeInput `json:"bible_verse_ranges,omitempty"`
}

type UpdateEntryRequest struct {
	VerifiedStatus *string `json:"verified_status,omitempty"`
	IsLocked       *bool   `json:"is_locked,omitempty"`
}

type ListEntriesRequest struct {
	Status string `form:"status"`
	Query  string `form:"q"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
