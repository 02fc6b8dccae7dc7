// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long an untouched draft survives.
	DefaultTTL = 7 * 24 * time.Hour

	// LockTTL bounds a generation lock whose holder never released it.
	LockTTL = 5 * time.Minute

	keyPrefix  = "draft:"
	lockPrefix = "generate:lock:"
)

// unlockScript deletes the lock only while it still holds the caller's
// token, so an expired holder cannot release a newer run's lock.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store persists one draft per user in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a draft store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: DefaultTTL}
}

func key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func lockKey(userID uuid.UUID) string {
	return lockPrefix + userID.String()
}

// Get returns the user's draft, or a fresh one if none is stored.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*State, error) {
	payload, err := s.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft get: %w", err)
	}

	st := New()
	if err := json.Unmarshal(payload, st); err != nil {
		return nil, fmt.Errorf("draft unmarshal: %w", err)
	}
	return st, nil
}

// Save stamps st.UpdatedAt, stores the draft and resets its TTL.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, st *State) error {
	st.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("draft marshal: %w", err)
	}
	if err := s.client.Set(ctx, key(userID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("draft save: %w", err)
	}
	return nil
}

// Delete discards the user's draft.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("draft delete: %w", err)
	}
	return nil
}

// Lock claims the user's generation slot with SET NX. It returns the token
// needed to release it, or ok=false when another run holds the slot.
func (s *Store) Lock(ctx context.Context, userID uuid.UUID) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = s.client.SetNX(ctx, lockKey(userID), token, LockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("generation lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock releases a slot taken by Lock. A stale token is a no-op.
func (s *Store) Unlock(ctx context.Context, userID uuid.UUID, token string) error {
	if err := unlockScript.Run(ctx, s.client, []string{lockKey(userID)}, token).Err(); err != nil {
		return fmt.Errorf("generation unlock: %w", err)
	}
	return nil
}
