package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "checkout_session:"

// DefaultSessionTTL bounds how long a staging record may wait for its
// checkout to finalize before redis reaps it.
const DefaultSessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("checkout session not found")

// Session is the staging record written when a checkout begins. It holds the
// serialized account payload until the payment provider confirms the
// purchase, at which point it is copied into an Order. Expiry is enforced by
// the store, not by application scheduling.
type Session struct {
	SessionID    string    `json:"sessionId"`
	AccountNames string    `json:"accountNames"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionStore is the contract the finalizer depends on. The redis Store is
// the production implementation; tests substitute a clock-driven fake.
type SessionStore interface {
	Put(ctx context.Context, session Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// Store keeps sessions as JSON values under a TTL so orphaned staging data
// self-destructs whether or not it was consumed.
type Store struct {
	Client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{Client: client}
}

func (s *Store) Put(ctx context.Context, session Session, ttl time.Duration) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKeyPrefix+session.SessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store checkout session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	payload, err := s.Client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}
	return &session, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
