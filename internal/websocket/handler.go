package websocket

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/debatearchive/backend/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades authenticated dashboard connections onto the live feed
type Handler struct {
	hub            *Hub
	sessions       *auth.SessionService
	allowedOrigins []string
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, sessions *auth.SessionService, allowedOrigins []string) *Handler {
	return &Handler{
		hub:            hub,
		sessions:       sessions,
		allowedOrigins: allowedOrigins,
	}
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Handler) HandleWebSocket(c *gin.Context) {
	// Browsers cannot set Authorization headers on websocket upgrades,
	// so the session token rides a query parameter
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	ident, err := h.sessions.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return false
		}
		for _, pattern := range h.allowedOrigins {
			if matchOrigin(pattern, origin) {
				return true
			}
		}
		return false
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := NewClient(h.hub, conn, ident.UserID)

	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

// GetStats reports the live feed connection count
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected_clients": h.hub.ClientCount()})
}

// matchOrigin allows exact matches, a bare wildcard, or *.example.com
// suffix patterns
func matchOrigin(pattern, origin string) bool {
	if pattern == "*" || pattern == origin {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return strings.HasSuffix(origin, "."+suffix) || strings.HasSuffix(origin, "//"+suffix)
	}
	return false
}
