package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/debatearchive/backend/internal/models"
)

// verifierCacheTTL keeps allow-list answers fresh enough that a revoked
// verifier loses access within a minute
const verifierCacheTTL = time.Minute

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// Verifier lookup cache

// GetVerifier returns a cached allow-list answer for a hashed identifier
func (r *RedisClient) GetVerifier(userIDHash string) (bool, bool, error) {
	key := fmt.Sprintf("verifier:%s", userIDHash)
	val, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == "1", true, nil
}

// SetVerifier caches an allow-list answer with a short TTL
func (r *RedisClient) SetVerifier(userIDHash string, isVerifier bool) error {
	key := fmt.Sprintf("verifier:%s", userIDHash)
	val := "0"
	if isVerifier {
		val = "1"
	}
	return r.client.Set(r.ctx, key, val, verifierCacheTTL).Err()
}

// InvalidateVerifier drops the cached answer after a grant or revoke
func (r *RedisClient) InvalidateVerifier(userIDHash string) error {
	key := fmt.Sprintf("verifier:%s", userIDHash)
	return r.client.Del(r.ctx, key).Err()
}

// Pub/Sub

// PublishEvent publishes an archive event for the live feed
func (r *RedisClient) PublishEvent(event models.ArchiveEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, "archive-events", data).Err()
}

// SubscribeToEvents subscribes to the archive event channel
func (r *RedisClient) SubscribeToEvents() *redis.PubSub {
	return r.client.Subscribe(r.ctx, "archive-events")
}

// AllowAction implements a Redis-backed token-bucket limiter per key (actor+action).
// This is the shared burst guard in front of the database window limiter.
// Returns true if the action is allowed, false if rate-limited.
func (r *RedisClient) AllowAction(actorHash string, action string, rate int, burst int) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", action, actorHash)
	// Lua script: manage tokens and last timestamp
	script := `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local vals = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(vals[1])
local last = tonumber(vals[2])
if tokens == nil then tokens = burst end
if last == nil then last = now end
local delta = math.max(0, now - last)
local new_tokens = math.min(burst, tokens + (delta * rate / 1000))
if new_tokens >= 1 then
	new_tokens = new_tokens - 1
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 1
else
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 0
end
`

	now := time.Now().UnixNano() / int64(time.Millisecond)
	res, err := r.client.Eval(r.ctx, script, []string{key}, rate, burst, now).Result()
	if err != nil {
		return false, err
	}
	// Eval returns int64 (1 or 0)
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case int:
		return v == 1, nil
	default:
		return false, fmt.Errorf("unexpected result from rate limiter: %T %v", res, res)
	}
}
