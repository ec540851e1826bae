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
)

type VoteHandler struct {
	votes   *repository.VoteRepository
	limiter *ratelimit.Limiter
	limits  ratelimit.Limits
	redis   *cache.RedisClient
}

func NewVoteHandler(
	votes *repository.VoteRepository,
	limiter *ratelimit.Limiter,
	limits ratelimit.Limits,
	redis *cache.RedisClient,
) *VoteHandler {
	return &VoteHandler{
		votes:   votes,
		limiter: limiter,
		limits:  limits,
		redis:   redis,
	}
}

// Cast upserts the caller's vote and returns the fresh tally
func (h *VoteHandler) Cast(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userHash := auth.HashUserID(ident.UserID)
	ipHash := auth.HashIP(middleware.ClientIP(c))

	allowed, err := h.limiter.Allow(userHash, ipHash, models.ActionVote, h.limits)
	if err != nil {
		StoreError(c, err)
		return
	}
	if !allowed {
		ErrorResponse(c, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	if err := h.limiter.Record(userHash, ipHash, models.ActionVote); err != nil {
		log.Printf("Warning: failed to record rate limit action: %v", err)
	}

	vote := &models.Vote{
		VoterID:  ident.UserID,
		EntryID:  req.EntryID,
		VoteType: req.VoteType,
		IPHash:   ipHash,
	}

	if err := h.votes.Upsert(vote); err != nil {
		StoreError(c, err)
		return
	}

	// Recompute before responding so the client never sees a stale tally
	tally, err := h.votes.Tally(req.EntryID)
	if err != nil {
		StoreError(c, err)
		return
	}

	h.publishTally(req.EntryID, *tally)

	c.JSON(http.StatusOK, models.VoteResponse{Vote: vote, VoteCount: *tally})
}

// Rescind removes the caller's own vote and returns the fresh tally
func (h *VoteHandler) Rescind(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	entryID, err := uuid.Parse(c.Query("entry_id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Entry ID required")
		return
	}

	if err := h.votes.Delete(ident.UserID, entryID); err != nil {
		StoreError(c, err)
		return
	}

	tally, err := h.votes.Tally(entryID)
	if err != nil {
		StoreError(c, err)
		return
	}

	h.publishTally(entryID, *tally)

	c.JSON(http.StatusOK, gin.H{"success": true, "vote_count": tally})
}

func (h *VoteHandler) publishTally(entryID uuid.UUID, tally models.VoteCount) {
	if h.redis == nil {
		return
	}
	event := models.ArchiveEvent{
		Event:   models.EventTallyUpdated,
		Payload: models.TallyEvent{EntryID: entryID, VoteCount: tally},
	}
	if err := h.redis.PublishEvent(event); err != nil {
		log.Printf("Warning: failed to publish tally event: %v", err)
	}
}
