package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-asset-server/internal/model"
	"photo-asset-server/internal/service"
)

// memoryHashStore : потокобезопасная замена Redis для тестов
type memoryHashStore struct {
	mu      sync.Mutex
	records map[string]*model.PublicHashRecord
}

func newMemoryHashStore() *memoryHashStore {
	return &memoryHashStore{records: make(map[string]*model.PublicHashRecord)}
}

func (s *memoryHashStore) Get(_ context.Context, photoID string) (*model.PublicHashRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[photoID]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (s *memoryHashStore) Save(_ context.Context, photoID string, record *model.PublicHashRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[photoID] = &copied
	return nil
}

type testClock struct {
	mu sync.Mutex
	ms int64
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.UnixMilli(c.ms)
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms += d.Milliseconds()
}

func newTestRegistry(ttl time.Duration) (*service.HashRegistry, *testClock) {
	clock := &testClock{ms: 1_000_000}
	return service.NewHashRegistryWithClock(newMemoryHashStore(), ttl, clock.Now), clock
}

func TestEnsureHashStableWithinTTL(t *testing.T) {
	registry, _ := newTestRegistry(time.Hour)
	ctx := context.Background()

	first, err := registry.EnsureHash(ctx, "photo-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Len(t, first.Hash, 32)

	second, err := registry.EnsureHash(ctx, "photo-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureHashRotatesAfterTTL(t *testing.T) {
	registry, clock := newTestRegistry(time.Hour)
	ctx := context.Background()

	first, err := registry.EnsureHash(ctx, "photo-1")
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Minute)

	rotated, err := registry.EnsureHash(ctx, "photo-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Hash, rotated.Hash)
	assert.Greater(t, rotated.ExpiresAt, first.ExpiresAt)
}

func TestGetActiveDoesNotMutate(t *testing.T) {
	registry, clock := newTestRegistry(time.Hour)
	ctx := context.Background()

	record, err := registry.GetActive(ctx, "photo-1")
	require.NoError(t, err)
	assert.Nil(t, record)

	created, err := registry.EnsureHash(ctx, "photo-1")
	require.NoError(t, err)

	record, err = registry.GetActive(ctx, "photo-1")
	require.NoError(t, err)
	assert.Equal(t, created, record)

	clock.Advance(2 * time.Hour)

	// истёкшая запись не видна и не ротируется чтением
	record, err = registry.GetActive(ctx, "photo-1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestValidateLifecycle(t *testing.T) {
	registry, clock := newTestRegistry(time.Hour)
	ctx := context.Background()

	_, reason, err := registry.Validate(ctx, "photo-1", "")
	require.NoError(t, err)
	assert.Equal(t, service.HashReasonMissing, reason)

	_, reason, err = registry.Validate(ctx, "photo-1", "whatever")
	require.NoError(t, err)
	assert.Equal(t, service.HashReasonNotFound, reason)

	created, err := registry.EnsureHash(ctx, "photo-1")
	require.NoError(t, err)

	_, reason, err = registry.Validate(ctx, "photo-1", "wrong-hash")
	require.NoError(t, err)
	assert.Equal(t, service.HashReasonMismatch, reason)

	record, reason, err := registry.Validate(ctx, "photo-1", created.Hash)
	require.NoError(t, err)
	assert.Empty(t, reason)
	assert.Equal(t, created, record)

	clock.Advance(2 * time.Hour)

	_, reason, err = registry.Validate(ctx, "photo-1", created.Hash)
	require.NoError(t, err)
	assert.Equal(t, service.HashReasonExpired, reason)

	// Validate не ротирует: missing остаётся expired и после проверок
	_, reason, err = registry.Validate(ctx, "photo-1", created.Hash)
	require.NoError(t, err)
	assert.Equal(t, service.HashReasonExpired, reason)
}

// Конкурентный EnsureHash по множеству photoID: каждый id получает свой
// стабильный хэш, даже когда разные id делят один шардированный mutex
func TestEnsureHashManyPhotos(t *testing.T) {
	registry, _ := newTestRegistry(time.Hour)
	ctx := context.Background()

	const photos = 200
	hashes := make([]string, photos)

	var wg sync.WaitGroup
	for i := 0; i < photos; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, err := registry.EnsureHash(ctx, fmt.Sprintf("photo-%d", i))
			require.NoError(t, err)
			hashes[i] = record.Hash
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, photos)
	for i := 0; i < photos; i++ {
		assert.False(t, seen[hashes[i]], "хэш %d не уникален", i)
		seen[hashes[i]] = true

		record, err := registry.EnsureHash(ctx, fmt.Sprintf("photo-%d", i))
		require.NoError(t, err)
		assert.Equal(t, hashes[i], record.Hash)
	}
}

// Конкурентные EnsureHash по одному photoID должны увидеть одну и ту же
// запись: ровно один победитель, ни одной пары разных "активных" хэшей
func TestEnsureHashConcurrentSingleWinner(t *testing.T) {
	registry, _ := newTestRegistry(time.Hour)
	ctx := context.Background()

	const workers = 32
	results := make([]*model.PublicHashRecord, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, err := registry.EnsureHash(ctx, "photo-1")
			require.NoError(t, err)
			results[i] = record
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Equal(t, results[0].Hash, results[i].Hash)
	}
}
