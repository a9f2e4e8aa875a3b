package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/models"
)

const (
	pendingLoginPrefix = "pending_login:"
	sessionPrefix      = "session:"
)

var (
	ErrNoPendingLogin = errors.New("no pending login for session")
	ErrNoSession      = errors.New("no such session")
)

// Store keeps the short-lived login state in Redis, keyed by session id, so
// it survives process restarts and works across replicas.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// PutPendingLogin stores the OTP-bound login state. At most one pending login
// exists per session: a second login attempt overwrites the first.
func (s *Store) PutPendingLogin(ctx context.Context, sessionID string, p *models.PendingLogin, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal pending login: %w", err)
	}
	if err := s.rdb.Set(ctx, pendingLoginPrefix+sessionID, b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending login: %w", err)
	}
	return nil
}

func (s *Store) GetPendingLogin(ctx context.Context, sessionID string) (*models.PendingLogin, error) {
	b, err := s.rdb.Get(ctx, pendingLoginPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoPendingLogin
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending login: %w", err)
	}
	var p models.PendingLogin
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending login: %w", err)
	}
	return &p, nil
}

func (s *Store) DeletePendingLogin(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, pendingLoginPrefix+sessionID).Err()
}

// PutSession records a fully authenticated session. These are deliberately
// short-lived: the bearer token takes over for subsequent requests.
func (s *Store) PutSession(ctx context.Context, sessionID, driverID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionPrefix+sessionID, driverID, ttl).Err()
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (string, error) {
	v, err := s.rdb.Get(ctx, sessionPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	return v, err
}

// SetExpiry shortens (or extends) the remaining lifetime of a session.
func (s *Store) SetExpiry(ctx context.Context, sessionID string, ttl time.Duration) error {
	return s.rdb.Expire(ctx, sessionPrefix+sessionID, ttl).Err()
}

// DeleteSession removes both the session record and any pending login bound
// to it.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionPrefix+sessionID, pendingLoginPrefix+sessionID).Err()
}
