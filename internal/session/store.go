package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ifinsure/internal/config"
)

var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Session is the server-side record behind an access token. Deleting it
// revokes every token that references it.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserType  string    `json:"user_type"`
	Device    string    `json:"device,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps sessions in redis with a TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore connects a redis-backed session store.
func NewStore(cfg config.RedisConfig, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: ttl,
	}
}

// NewStoreWithClient wires an existing client, used by tests.
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Ping verifies redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Create stores a new session and returns it.
func (s *Store) Create(ctx context.Context, userID, userType, device string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserType:  userType,
		Device:    device,
		CreatedAt: time.Now().UTC(),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, b, s.ttl).Err(); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session by ID. A missing or expired session returns
// ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	b, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete revokes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

// Touch extends a session's TTL on activity.
func (s *Store) Touch(ctx context.Context, id string) error {
	return s.client.Expire(ctx, keyPrefix+id, s.ttl).Err()
}
