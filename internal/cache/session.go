package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autotrack/autotrack/internal/model"
)

const (
	// sessionKeyPrefix is the Redis key prefix for auth sessions.
	sessionKeyPrefix = "session:"

	// DefaultSessionTTL is how long a session stays valid without use.
	DefaultSessionTTL = 24 * time.Hour
)

// Common cache errors.
var (
	ErrSessionNotFound = errors.New("session not found")
)

// cachedSession is the session record stored in Redis. Keyed by the
// token's QuickHash, never the plaintext token.
type cachedSession struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSession stores a session under the hashed token with the given TTL.
func (c *Cache) CreateSession(ctx context.Context, tokenHash string, id *model.Identity, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	data, err := json.Marshal(cachedSession{
		UserID:    id.UserID,
		Email:     id.Email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := sessionKeyPrefix + tokenHash
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// GetSession resolves a hashed token to the identity it was issued for.
// Returns ErrSessionNotFound for unknown or expired sessions.
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.Identity, error) {
	key := sessionKeyPrefix + tokenHash

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted entry - treat as missing
		return nil, ErrSessionNotFound
	}

	return &model.Identity{UserID: cached.UserID, Email: cached.Email}, nil
}

// DeleteSession revokes a session.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, sessionKeyPrefix+tokenHash).Err()
}
