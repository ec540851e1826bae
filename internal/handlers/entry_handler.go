package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/debatearchive/backend/internal/auth"
	"github.com/debatearchive/backend/internal/cache"
	"github.com/debatearchive/backend/internal/middleware"
	"github.com/debatearchive/backend/internal/models"
	"github.com/debatearchive/backend/internal/ratelimit"
	"github.com/debatearchive/backend/internal/repository"
	"github.com/debatearchive/backend/internal/scripture"
	"github.com/debatearchive/backend/internal/video"
)

type EntryHandler struct {
	entries   *repository.EntryRepository
	votes     *repository.VoteRepository
	revisions *repository.RevisionRepository
	limiter   *ratelimit.Limiter
	limits    ratelimit.Limits
	redis     *cache.RedisClient
}

func NewEntryHandler(
	entries *repository.EntryRepository,
	votes *repository.VoteRepository,
	revisions *repository.RevisionRepository,
	limiter *ratelimit.Limiter,
	limits ratelimit.Limits,
	redis *cache.RedisClient,
) *EntryHandler {
	return &EntryHandler{
		entries:   entries,
		votes:     votes,
		revisions: revisions,
		limiter:   limiter,
		limits:    limits,
		redis:     redis,
	}
}

// List returns entries by status with joined stats, verses and fresh tallies
func (h *EntryHandler) List(c *gin.Context) {
	var req models.ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Status == "" {
		req.Status = models.StatusVerified
	}
	if !models.ValidStatus(req.Status) {
		ErrorResponse(c, http.StatusBadRequest, "Invalid status filter")
		return
	}

	entries, err := h.entries.List(req.Status, req.Query, req.Limit, req.Offset)
	if err != nil {
		StoreError(c, err)
		return
	}

	result := make([]models.EntryWithRelations, 0, len(entries))
	for _, entry := range entries {
		enriched, err := h.withRelations(entry)
		if err != nil {
			StoreError(c, err)
			return
		}
		result = append(result, *enriched)
	}

	c.JSON(http.StatusOK, result)
}

// Submit creates a pending entry with its linked stats and verses
func (h *EntryHandler) Submit(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ref, err := video.ParseYouTubeURL(req.YouTubeURL)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid YouTube URL")
		return
	}

	// Expand and bound-check verses before any write happens
	verses, err := collectVerses(req)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userHash := auth.HashUserID(ident.UserID)
	ipHash := auth.HashIP(middleware.ClientIP(c))

	allowed, err := h.limiter.Allow(userHash, ipHash, models.ActionSubmitEntry, h.limits)
	if err != nil {
		StoreError(c, err)
		return
	}
	if !allowed {
		ErrorResponse(c, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	if err := h.limiter.Record(userHash, ipHash, models.ActionSubmitEntry); err != nil {
		log.Printf("Warning: failed to record rate limit action: %v", err)
	}

	entry := &models.Entry{
		ID:            uuid.New(),
		Question:      req.Question,
		AnswerSummary: req.AnswerSummary,
		VideoID:       ref.VideoID,
		StartSeconds:  ref.StartSeconds,
		SubmittedBy:   ident.UserID,
	}

	if err := h.entries.Create(entry); err != nil {
		StoreError(c, err)
		return
	}

	// Children are linked only after the parent insert succeeds
	for i, input := range req.Stats {
		stat := &models.Stat{Description: input.Description, SourceURL: input.SourceURL}
		if err := h.entries.UpsertStat(stat); err != nil {
			StoreError(c, err)
			return
		}
		if err := h.entries.LinkStat(entry.ID, stat.ID, i); err != nil {
			StoreError(c, err)
			return
		}
	}

	for i, input := range verses {
		verse := &models.BibleVerse{Book: input.Book, Chapter: input.Chapter, Verse: input.Verse, Text: input.Text}
		if err := h.entries.UpsertVerse(verse); err != nil {
			StoreError(c, err)
			return
		}
		if err := h.entries.LinkVerse(entry.ID, verse.ID, i); err != nil {
			StoreError(c, err)
			return
		}
	}

	h.publish(models.ArchiveEvent{Event: models.EventEntryNew, Payload: entry})

	c.JSON(http.StatusCreated, entry)
}

// Update applies a moderator status or lock change and writes the revision
// row in the same transaction
func (h *EntryHandler) Update(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.VerifiedStatus == nil && req.IsLocked == nil {
		ErrorResponse(c, http.StatusBadRequest, "Nothing to update")
		return
	}
	if req.VerifiedStatus != nil && !models.ValidStatus(*req.VerifiedStatus) {
		ErrorResponse(c, http.StatusBadRequest, "Invalid verified_status")
		return
	}

	updated, err := h.entries.UpdateModeration(entryID, ident.UserID, req.VerifiedStatus, req.IsLocked)
	if err != nil {
		StoreError(c, err)
		return
	}

	h.publish(models.ArchiveEvent{
		Event: models.EventEntryStatus,
		Payload: models.EntryStatusEvent{
			EntryID:        updated.ID,
			VerifiedStatus: updated.VerifiedStatus,
			IsLocked:       updated.IsLocked,
		},
	})

	c.JSON(http.StatusOK, updated)
}

// Delete snapshots the entry into the revision log, then removes it
func (h *EntryHandler) Delete(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.entries.Delete(entryID, ident.UserID); err != nil {
		StoreError(c, err)
		return
	}

	h.publish(models.ArchiveEvent{Event: models.EventEntryDeleted, Payload: gin.H{"entry_id": entryID}})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Revisions returns the audit trail for an entry
func (h *EntryHandler) Revisions(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	revisions, err := h.revisions.ListByEntry(entryID, 0)
	if err != nil {
		StoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, revisions)
}

func (h *EntryHandler) withRelations(entry models.Entry) (*models.EntryWithRelations, error) {
	stats, err := h.entries.GetStatsByEntry(entry.ID)
	if err != nil {
		return nil, err
	}
	verses, err := h.entries.GetVersesByEntry(entry.ID)
	if err != nil {
		return nil, err
	}
	tally, err := h.votes.Tally(entry.ID)
	if err != nil {
		return nil, err
	}

	return &models.EntryWithRelations{
		Entry:       entry,
		Stats:       stats,
		BibleVerses: verses,
		VoteCount:   tally,
	}, nil
}

func (h *EntryHandler) publish(event models.ArchiveEvent) {
	if h.redis == nil {
		return
	}
	if err := h.redis.PublishEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event.Event, err)
	}
}

// collectVerses merges pre-expanded verses and server-expanded ranges,
// bound-checking everything against the canon table
func collectVerses(req models.SubmitEntryRequest) ([]models.VerseInput, error) {
	verses := make([]models.VerseInput, 0, len(req.BibleVerses))

	for _, v := range req.BibleVerses {
		if err := scripture.ValidateVerse(v.Book, v.Chapter, v.Verse); err != nil {
			return nil, err
		}
		verses = append(verses, v)
	}

	for _, r := range req.VerseRanges {
		expanded, err := scripture.ExpandRange(scripture.Range{
			Book:         r.Book,
			StartChapter: r.StartChapter,
			StartVerse:   r.StartVerse,
			EndChapter:   derefInt(r.EndChapter),
			EndVerse:     derefInt(r.EndVerse),
			Text:         derefString(r.Text),
		})
		if err != nil {
			return nil, err
		}
		for _, ref := range expanded {
			verse := models.VerseInput{Book: ref.Book, Chapter: ref.Chapter, Verse: ref.Verse}
			if ref.Text != "" {
				text := ref.Text
				verse.Text = &text
			}
			verses = append(verses, verse)
		}
	}

	return verses, nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
