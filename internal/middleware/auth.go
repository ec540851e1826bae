package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/debatearchive/backend/internal/auth"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID   = "user_id"
	ContextIdentity = "identity"
)

// AuthMiddleware resolves the caller through the identity provider session
// token and puts the identity on the request context
func AuthMiddleware(sessions *auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		ident, err := sessions.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(ContextIdentity, *ident)
		c.Set(ContextUserID, ident.UserID)
		c.Next()
	}
}

// RequireVerifier gates moderation endpoints behind the capability check.
// Must run after AuthMiddleware.
func RequireVerifier(checker auth.CapabilityChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		isVerifier, err := checker.IsVerifier(ident)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check verifier access"})
			c.Abort()
			return
		}
		if !isVerifier {
			c.JSON(http.StatusForbidden, gin.H{"error": "Verifier access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IdentityFrom returns the identity set by AuthMiddleware
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(ContextIdentity)
	if !exists {
		return auth.Identity{}, false
	}
	ident, ok := value.(auth.Identity)
	return ident, ok
}

// ClientIP returns the forwarded client address, matching the original
// proxy-aware header order
func ClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		// First hop is the client
		if idx := strings.Index(ip, ","); idx > 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return ip
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
