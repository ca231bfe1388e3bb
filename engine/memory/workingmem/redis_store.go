package workingmem

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "ctxkeeper"

// RedisClient is the subset of go-redis commands the store needs.
type RedisClient interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...any) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisStore keeps one Redis set of tool names per session.
type RedisStore struct {
	client    RedisClient
	keyPrefix string
	sessionID string
	ttl       time.Duration
}

type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// WithTTL refreshes the key expiry on every write. Zero keeps keys forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func NewRedisStore(client RedisClient, sessionID string, opts ...RedisOption) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is nil", ErrStoreUnavailable)
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session ID cannot be empty")
	}
	s := &RedisStore{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
		sessionID: sessionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *RedisStore) key() string {
	return fmt.Sprintf("%s:%s:tools", s.keyPrefix, s.sessionID)
}

// DiscoveredTools returns the session's tools sorted by name.
func (s *RedisStore) DiscoveredTools(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: read tools for session %s: %w", ErrStoreUnavailable, s.sessionID, err)
	}
	slices.Sort(members)
	return members, nil
}

func (s *RedisStore) RemoveTools(ctx context.Context, names []string) error {
	members := toMembers(names)
	if len(members) == 0 {
		return nil
	}
	if err := s.client.SRem(ctx, s.key(), members...).Err(); err != nil {
		return fmt.Errorf("%w: remove tools for session %s: %w", ErrStoreUnavailable, s.sessionID, err)
	}
	return s.touch(ctx)
}

func (s *RedisStore) AddTools(ctx context.Context, names []string) error {
	members := toMembers(names)
	if len(members) == 0 {
		return nil
	}
	if err := s.client.SAdd(ctx, s.key(), members...).Err(); err != nil {
		return fmt.Errorf("%w: add tools for session %s: %w", ErrStoreUnavailable, s.sessionID, err)
	}
	return s.touch(ctx)
}

func (s *RedisStore) touch(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	if err := s.client.Expire(ctx, s.key(), s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: refresh ttl for session %s: %w", ErrStoreUnavailable, s.sessionID, err)
	}
	return nil
}

func toMembers(names []string) []any {
	members := make([]any, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		members = append(members, name)
	}
	return members
}
