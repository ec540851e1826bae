package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/debatearchive/backend/internal/auth"
	"github.com/debatearchive/backend/internal/cache"
)

// BurstLimiter is the first line of defense in front of the database
// window limiter: a token bucket per actor. When Redis is available the
// bucket is shared across instances; otherwise each process keeps its own.
type BurstLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	redis    *cache.RedisClient
}

func NewBurstLimiter(rps int, redis *cache.RedisClient) *BurstLimiter {
	return &BurstLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    rps * 2,
		redis:    redis,
	}
}

func (rl *BurstLimiter) getLimiter(actorHash string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[actorHash]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[actorHash] = limiter
	}

	return limiter
}

// Allow consumes one token for the actor
func (rl *BurstLimiter) Allow(actorHash string) bool {
	if rl.redis != nil {
		allowed, err := rl.redis.AllowAction(actorHash, "burst", int(rl.rate), rl.burst)
		if err == nil {
			return allowed
		}
		// Redis trouble falls back to the local bucket
	}
	return rl.getLimiter(actorHash).Allow()
}

// Cleanup removes old limiters
func (rl *BurstLimiter) Cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		for range ticker.C {
			rl.mu.Lock()
			// Simple cleanup - in production, track last access time
			if len(rl.limiters) > 10000 {
				rl.limiters = make(map[string]*rate.Limiter)
			}
			rl.mu.Unlock()
		}
	}()
}

// BurstLimitMiddleware limits request bursts per authenticated actor
func BurstLimitMiddleware(rl *BurstLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			c.Next()
			return
		}

		uid, ok := userID.(string)
		if !ok {
			c.Next()
			return
		}

		if !rl.Allow(auth.HashUserID(uid)) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
