package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 10 * time.Minute

// StateStore holds single-use OAuth state nonces between the redirect to
// GitHub and the callback.
type StateStore interface {
	Put(ctx context.Context, state string) error
	// Take consumes the nonce; a second Take of the same value fails.
	Take(ctx context.Context, state string) bool
}

func NewState() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// RedisStateStore survives restarts and works across instances.
type RedisStateStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStateStore(rdb *redis.Client) *RedisStateStore {
	return &RedisStateStore{rdb: rdb, prefix: "oauth_state:"}
}

func (s *RedisStateStore) Put(ctx context.Context, state string) error {
	return s.rdb.Set(ctx, s.prefix+state, "1", stateTTL).Err()
}

func (s *RedisStateStore) Take(ctx context.Context, state string) bool {
	n, err := s.rdb.GetDel(ctx, s.prefix+state).Result()
	return err == nil && n != ""
}

// MemoryStateStore is the single-instance fallback when Redis is not
// configured.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: map[string]time.Time{}}
}

func (s *MemoryStateStore) Put(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(stateTTL)
	return nil
}

func (s *MemoryStateStore) Take(_ context.Context, state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(exp)
}
