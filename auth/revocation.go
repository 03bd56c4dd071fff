package auth

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// RevocationList tracks tokens that were explicitly invalidated before their
// expiry. Entries carry a TTL equal to the remaining token lifetime, so the
// list never grows past the set of still-live tokens.
type RevocationList interface {
	// Revoke adds the token and reports whether it was newly added.
	// Adding an already-revoked token is a no-op.
	Revoke(token string, ttl time.Duration) bool
	IsRevoked(token string) bool
}

type memoryList struct {
	c *gocache.Cache
}

// NewMemoryRevocationList returns an in-process list. It is safe for
// concurrent use but does not survive restarts and is not shared across
// instances; front a Redis list with it in multi-instance deployments.
func NewMemoryRevocationList() RevocationList {
	return &memoryList{c: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (m *memoryList) Revoke(token string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	// Add is atomic, so concurrent revocations agree on who added first.
	return m.c.Add(token, struct{}{}, ttl) == nil
}

func (m *memoryList) IsRevoked(token string) bool {
	_, found := m.c.Get(token)
	return found
}

type redisList struct {
	c      *redis.Client
	prefix string
}

// NewRedisRevocationList returns a list shared across service instances.
func NewRedisRevocationList(addr string, db int) RevocationList {
	return &redisList{
		c:      redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		prefix: "revoked:",
	}
}

func (r *redisList) Revoke(token string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = time.Minute
	}
	added, err := r.c.SetNX(context.Background(), r.prefix+token, "1", ttl).Result()
	if err != nil {
		return false
	}
	return added
}

func (r *redisList) IsRevoked(token string) bool {
	n, err := r.c.Exists(context.Background(), r.prefix+token).Result()
	return err == nil && n > 0
}

type layeredList struct {
	fast   RevocationList
	shared RevocationList
}

// NewLayeredRevocationList keeps an in-process fast path in front of a shared
// backing list. Reads hit the fast path first; writes go to both.
func NewLayeredRevocationList(fast, shared RevocationList) RevocationList {
	return &layeredList{fast: fast, shared: shared}
}

func (l *layeredList) Revoke(token string, ttl time.Duration) bool {
	added := l.shared.Revoke(token, ttl)
	l.fast.Revoke(token, ttl)
	return added
}

func (l *layeredList) IsRevoked(token string) bool {
	if l.fast.IsRevoked(token) {
		return true
	}
	return l.shared.IsRevoked(token)
}
