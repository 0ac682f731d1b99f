package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"prepmate/internal/model"
)

// ErrCacheMiss is returned when no fresh research exists for a company
var ErrCacheMiss = errors.New("research cache miss")

// Store is the key/value backend behind the research cache. Production
// uses redis; tests use an in-memory map so expiry semantics can be
// exercised against an injected clock.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a redis client as a cache backend
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	return val, err
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	// No redis-level TTL: expiry is per field inside the entry, and a
	// partially fresh entry must stay readable.
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// ResearchCache caches per-company research fields with independent
// per-field expiry
type ResearchCache interface {
	// Get returns the entry for a company with expired fields filtered
	// out. If no field survives, it returns ErrCacheMiss.
	Get(ctx context.Context, company string) (*model.ResearchEntry, error)

	// Save writes all fields of an entry through with a single fresh
	// timestamp. A refresh always refreshes the whole set as one unit
	// even though natural expiry is per-field.
	Save(ctx context.Context, entry *model.ResearchEntry) error

	// Clear drops a single company's entry
	Clear(ctx context.Context, company string) error
}

type researchCache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewResearchCache creates a research cache with the given per-field TTL
func NewResearchCache(store Store, ttl time.Duration) ResearchCache {
	return &researchCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

func researchKey(company string) string {
	return "research:" + strings.ToLower(strings.TrimSpace(company))
}

func (c *researchCache) Get(ctx context.Context, company string) (*model.ResearchEntry, error) {
	data, err := c.store.Get(ctx, researchKey(company))
	if err != nil {
		return nil, err
	}

	var entry model.ResearchEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		// A corrupt entry is treated as a miss so the caller refreshes
		return nil, ErrCacheMiss
	}

	fresh := entry.Fresh(c.now())
	if len(fresh) == 0 {
		return nil, ErrCacheMiss
	}
	entry.Fields = fresh

	return &entry, nil
}

func (c *researchCache) Save(ctx context.Context, entry *model.ResearchEntry) error {
	now := c.now()
	expires := now.Add(c.ttl)
	for name, f := range entry.Fields {
		f.FetchedAt = now
		f.ExpiresAt = expires
		entry.Fields[name] = f
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, researchKey(entry.Company), string(data))
}

func (c *researchCache) Clear(ctx context.Context, company string) error {
	return c.store.Del(ctx, researchKey(company))
}
