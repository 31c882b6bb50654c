// Package session implements the server-side session boundary. A session is
// an opaque id handed to the client in a cookie; the only value ever stored
// under it is the authenticated user's id. All other user state is re-fetched
// from the database on every request so no request acts on a stale copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the cookie carrying the opaque session id.
const CookieName = "gramly_session"

const keyPrefix = "session:"

// ErrNotFound is returned when a session id does not resolve.
var ErrNotFound = errors.New("session not found")

// Store persists session-id -> user-id mappings in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a Store with the given session lifetime.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Create allocates a fresh opaque session id bound to userID.
func (s *Store) Create(ctx context.Context, userID uint) (string, error) {
	if s.rdb == nil {
		return "", errors.New("session store unavailable")
	}
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+id, strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// Get resolves a session id to the user id it was bound to, refreshing the
// TTL on success (sliding expiry).
func (s *Store) Get(ctx context.Context, id string) (uint, error) {
	if s.rdb == nil || id == "" {
		return 0, ErrNotFound
	}
	val, err := s.rdb.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get session: %w", err)
	}
	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, ErrNotFound
	}
	s.rdb.Expire(ctx, keyPrefix+id, s.ttl)
	return uint(userID), nil
}

// Remove deletes the session. Removing an absent session is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	if s.rdb == nil || id == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
