package redis

// Package redis provides the Redis-backed session store and its health check.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
	"github.com/immochat/immochat-web/internal/ports"
)

const defaultPrefix = "immochat:session:"

// SessionStore keeps sessions as JSON documents with a TTL derived from ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var (
	_ ports.SessionStore   = (*SessionStore)(nil)
	_ ports.SessionCreator = (*SessionStore)(nil)
)

// NewSessionStore creates a Redis session store with the default key prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, defaultPrefix)
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	data, ttl, err := s.encode(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Create stores sess only if its id is free (SET NX).
func (s *SessionStore) Create(ctx context.Context, sess domainauth.Session) error {
	data, ttl, err := s.encode(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, s.prefix+sess.ID, data, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return fmt.Errorf("create session %s: %w", sess.ID, ports.ErrSessionExists)
	}
	return nil
}

func (s *SessionStore) encode(sess domainauth.Session) ([]byte, time.Duration, error) {
	if sess.ID == "" {
		return nil, 0, errors.New("session ID cannot be empty")
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil, 0, errors.New("session is expired")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal session: %w", err)
	}
	return data, ttl, nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// Key TTL and ExpiresAt can drift by the clock skew between hosts.
	if sess.Expired(s.now()) {
		if err := s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", err)
		}
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// TTL reports the remaining lifetime of a stored session key.
func (s *SessionStore) TTL(ctx context.Context, id string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, s.prefix+id).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	if d < 0 {
		return 0, ports.ErrSessionNotFound
	}
	return d, nil
}

// PingCheck is the session-store health check for Redis.
type PingCheck struct {
	Client redis.UniversalClient
}

var _ ports.HealthCheck = (*PingCheck)(nil)

func (c *PingCheck) Name() string { return "session_store" }

func (c *PingCheck) Check(ctx context.Context) (string, error) {
	if c.Client == nil {
		return "set SESSION_STORE=redis and REDIS_HOST", errors.New("redis client not configured")
	}
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return "verify REDIS_HOST, REDIS_PORT and REDIS_PASSWORD", fmt.Errorf("redis ping: %w", err)
	}
	return "", nil
}
