package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepmate/internal/model"
)

// mapStore is an in-memory backend for exercising expiry semantics
type mapStore struct {
	data map[string]string
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string]string)}
}

func (s *mapStore) Get(_ context.Context, key string) (string, error) {
	val, ok := s.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return val, nil
}

func (s *mapStore) Set(_ context.Context, key, value string) error {
	s.data[key] = value
	return nil
}

func (s *mapStore) Del(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func newTestCache(store Store, ttl time.Duration, clock func() time.Time) *researchCache {
	return &researchCache{store: store, ttl: ttl, now: clock}
}

func fullEntry(company string) *model.ResearchEntry {
	fields := make(map[string]model.ResearchField, len(model.ResearchFieldNames))
	for _, name := range model.ResearchFieldNames {
		fields[name] = model.ResearchField{Content: name + " content"}
	}
	return &model.ResearchEntry{Company: company, Fields: fields}
}

func TestResearchCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c := newTestCache(newMapStore(), 7*24*time.Hour, func() time.Time { return now })

	require.NoError(t, c.Save(ctx, fullEntry("Acme")))

	got, err := c.Get(ctx, "Acme")
	require.NoError(t, err)
	assert.Len(t, got.Fields, 4)
	assert.Equal(t, "overview content", got.Fields[model.ResearchFieldOverview].Content)
}

func TestResearchCacheKeyNormalization(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCache(newMapStore(), time.Hour, func() time.Time { return now })

	require.NoError(t, c.Save(ctx, fullEntry("Acme Corp")))

	_, err := c.Get(ctx, "  ACME CORP ")
	assert.NoError(t, err)
}

func TestResearchCacheFreshJustBeforeExpiry(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ttl := 7 * 24 * time.Hour
	now := base
	c := newTestCache(newMapStore(), ttl, func() time.Time { return now })

	require.NoError(t, c.Save(ctx, fullEntry("Acme")))

	now = base.Add(ttl - time.Second)
	got, err := c.Get(ctx, "Acme")
	require.NoError(t, err)
	assert.Len(t, got.Fields, 4)
}

func TestResearchCacheMissWhenAllFieldsExpired(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ttl := 7 * 24 * time.Hour
	now := base
	c := newTestCache(newMapStore(), ttl, func() time.Time { return now })

	require.NoError(t, c.Save(ctx, fullEntry("Acme")))

	now = base.Add(ttl + time.Second)
	_, err := c.Get(ctx, "Acme")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestResearchCachePerFieldExpiry(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour
	now := base
	store := newMapStore()
	c := newTestCache(store, ttl, func() time.Time { return now })

	require.NoError(t, c.Save(ctx, fullEntry("Acme")))

	// Rewrite one field with an earlier expiry, simulating a field
	// cached on a previous day
	got, err := c.Get(ctx, "Acme")
	require.NoError(t, err)
	news := got.Fields[model.ResearchFieldNews]
	news.ExpiresAt = base.Add(time.Hour)
	got.Fields[model.ResearchFieldNews] = news

	data, err := json.Marshal(got)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, researchKey("Acme"), string(data)))

	now = base.Add(2 * time.Hour)
	fresh, err := c.Get(ctx, "Acme")
	require.NoError(t, err)
	assert.Len(t, fresh.Fields, 3)
	assert.NotContains(t, fresh.Fields, model.ResearchFieldNews)
	assert.Contains(t, fresh.Fields, model.ResearchFieldOverview)
}

func TestResearchCacheSaveRefreshesWholeSet(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour
	now := base
	c := newTestCache(newMapStore(), ttl, func() time.Time { return now })

	entry := fullEntry("Acme")
	require.NoError(t, c.Save(ctx, entry))

	// A later full refresh stamps every field with the same new expiry
	now = base.Add(6 * time.Hour)
	require.NoError(t, c.Save(ctx, entry))

	got, err := c.Get(ctx, "Acme")
	require.NoError(t, err)
	for name, f := range got.Fields {
		assert.True(t, f.FetchedAt.Equal(now), "field %s fetchedAt", name)
		assert.True(t, f.ExpiresAt.Equal(now.Add(ttl)), "field %s expiresAt", name)
	}
}

func TestResearchCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := newMapStore()
	c := newTestCache(store, time.Hour, func() time.Time { return now })

	require.NoError(t, store.Set(ctx, researchKey("Acme"), "not json"))

	_, err := c.Get(ctx, "Acme")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestResearchCacheClear(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCache(newMapStore(), time.Hour, func() time.Time { return now })

	require.NoError(t, c.Save(ctx, fullEntry("Acme")))
	require.NoError(t, c.Clear(ctx, "Acme"))

	_, err := c.Get(ctx, "Acme")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
