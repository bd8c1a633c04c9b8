package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key pattern:
// - ratelimit:{user_id}:messages - per-window socket message limit

type RateLimitConfig struct {
	MessageLimit  int           // Max messages per window
	MessageWindow time.Duration // Message rate limit window
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MessageLimit:  60,
		MessageWindow: 60 * time.Second,
	}
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	if config.MessageLimit <= 0 {
		config.MessageLimit = DefaultRateLimitConfig().MessageLimit
	}
	if config.MessageWindow <= 0 {
		config.MessageWindow = DefaultRateLimitConfig().MessageWindow
	}
	return &RateLimiter{client: client, config: config}
}

// Fixed window counter. Returns {allowed, remaining, ttl}.
var fixedWindowScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	else
		return {0, 0, ttl}
	end
`)

// AllowMessage checks and consumes one message from the user's quota.
func (r *RateLimiter) AllowMessage(ctx context.Context, userID string) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:messages", userID)
	return r.checkLimit(ctx, key, r.config.MessageLimit, r.config.MessageWindow)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	result, err := fixedWindowScript.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}
	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	ttl, _ := values[2].(int64)

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetIn:   time.Duration(ttl) * time.Second,
		Limit:     limit,
	}, nil
}

// ResetUser clears the user's message window.
func (r *RateLimiter) ResetUser(ctx context.Context, userID string) error {
	return r.client.Del(ctx, fmt.Sprintf("ratelimit:%s:messages", userID)).Err()
}
