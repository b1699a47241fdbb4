// Package session resolves opaque bearer tokens to principals through a
// Redis-backed session store. A token is only valid while its session row
// exists; logout and operator revocation delete the row.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Principal is the authenticated identity attached to a session.
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Active bool   `json:"is_active"`
}

// Store keeps sessions in Redis with a sliding expiry set at creation.
type Store struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{Redis: rdb, TTL: ttl}
}

// Create stores the principal under the token for the configured TTL.
func (s *Store) Create(ctx context.Context, token string, p Principal) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.Redis.SetEx(ctx, keyPrefix+token, data, s.TTL).Err()
}

// Resolve returns the principal for a token, or nil when the token is
// unknown or expired.
func (s *Store) Resolve(ctx context.Context, token string) (*Principal, error) {
	data, err := s.Redis.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p Principal
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Remove deletes the session. Returns true when a session existed.
func (s *Store) Remove(ctx context.Context, token string) (bool, error) {
	n, err := s.Redis.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExtractBearer pulls the token out of an "Authorization: Bearer ..." header.
// Returns "" when the header is missing or malformed.
func ExtractBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
