package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/debatearchive/backend/internal/cache"
	"github.com/debatearchive/backend/internal/models"
)

// Hub maintains the set of connected dashboard clients and fans archive
// events out to them. Events originate from the HTTP handlers via Redis
// pub/sub, so every instance behind a load balancer sees every event.
type Hub struct {
	// Registered clients keyed by connection id; one user may hold
	// several dashboard tabs
	clients map[uuid.UUID]*Client

	// Outbound events to all clients
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Redis client for pub/sub
	redis *cache.RedisClient

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(redis *cache.RedisClient) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		redis:      redis,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	go h.subscribeToRedis()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.connID] = client
			h.mu.Unlock()

			log.Printf("Live feed client connected: %s (user %s)", client.connID, client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.connID]; ok {
				delete(h.clients, client.connID)
				close(client.send)
			}
			h.mu.Unlock()

			log.Printf("Live feed client disconnected: %s", client.connID)

		case message := <-h.broadcast:
			h.mu.Lock()
			for connID, client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, connID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// subscribeToRedis pumps archive events from Redis into the broadcast channel
func (h *Hub) subscribeToRedis() {
	pubsub := h.redis.SubscribeToEvents()
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.broadcast <- []byte(msg.Payload)
	}
}

// Broadcast sends an event to every connected client directly, bypassing
// Redis. Used when Redis is unavailable.
func (h *Hub) Broadcast(event models.ArchiveEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, skip
		}
	}

	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
