package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/debatearchive/backend/internal/auth"
	"github.com/debatearchive/backend/internal/cache"
	"github.com/debatearchive/backend/internal/middleware"
	"github.com/debatearchive/backend/internal/models"
	"github.com/debatearchive/backend/internal/repository"
)

type VerifierHandler struct {
	verifiers *repository.VerifierRepository
	checker   auth.CapabilityChecker
	redis     *cache.RedisClient
}

func NewVerifierHandler(
	verifiers *repository.VerifierRepository,
	checker auth.CapabilityChecker,
	redis *cache.RedisClient,
) *VerifierHandler {
	return &VerifierHandler{
		verifiers: verifiers,
		checker:   checker,
		redis:     redis,
	}
}

// Status tells the caller whether they hold moderation capability
func (h *VerifierHandler) Status(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	isVerifier, err := h.checker.IsVerifier(ident)
	if err != nil {
		StoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifierStatusResponse{
		IsVerifier: isVerifier,
		UserIDHash: auth.HashUserID(ident.UserID),
	})
}

// Add grants moderation capability to another identifier. Only reachable
// through the verifier gate, so self-bootstrapping is impossible.
func (h *VerifierHandler) Add(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.AddVerifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "User ID required")
		return
	}

	newHash := auth.HashUserID(req.UserID)
	if err := h.verifiers.Add(newHash, auth.HashUserID(ident.UserID)); err != nil {
		StoreError(c, err)
		return
	}

	h.invalidate(newHash)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Verifier added successfully",
		"user_id_hash": newHash,
	})
}

// Remove revokes moderation capability by raw identifier
func (h *VerifierHandler) Remove(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		ErrorResponse(c, http.StatusBadRequest, "User ID required")
		return
	}

	hash := auth.HashUserID(userID)
	if err := h.verifiers.Remove(hash); err != nil {
		StoreError(c, err)
		return
	}

	h.invalidate(hash)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verifier removed successfully",
	})
}

func (h *VerifierHandler) invalidate(userIDHash string) {
	if h.redis == nil {
		return
	}
	if err := h.redis.InvalidateVerifier(userIDHash); err != nil {
		log.Printf("Warning: failed to invalidate verifier cache: %v", err)
	}
}
