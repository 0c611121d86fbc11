package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketai-bot/internal/api/marketai"
	"marketai-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStorage struct {
	mu      sync.Mutex
	filters map[int64][]byte
	presets map[int64][]byte
	writes  int
}

func newMemStorage() *memStorage {
	return &memStorage{filters: make(map[int64][]byte), presets: make(map[int64][]byte)}
}

func (m *memStorage) LoadFilterState(_ context.Context, userID int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters[userID], nil
}

func (m *memStorage) SaveFilterState(_ context.Context, userID int64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.filters[userID] = data
	return nil
}

func (m *memStorage) LoadPresets(_ context.Context, userID int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presets[userID], nil
}

func (m *memStorage) SavePresets(_ context.Context, userID int64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets[userID] = data
	return nil
}

func (m *memStorage) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type countingFetcher struct {
	mu     sync.Mutex
	params []marketai.FinancialMetricsParams
}

func (f *countingFetcher) GetFinancialMetrics(_ context.Context, params marketai.FinancialMetricsParams) (*marketai.FinancialMetricsResponse, error) {
	f.mu.Lock()
	f.params = append(f.params, params)
	f.mu.Unlock()
	return &marketai.FinancialMetricsResponse{}, nil
}

func (f *countingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.params)
}

type nopNotifier struct{}

func (nopNotifier) NotifyError(int64, string) {}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(storage *memStorage, fetcher *countingFetcher, clock *fakeClock) *Manager {
	return NewManager(Deps{
		FilterStorage: storage,
		PresetStorage: storage,
		Fetcher:       fetcher,
		Notifier:      nopNotifier{},
		Logger:        zap.NewNop(),
		FetchTimeout:  time.Second,
		Clock:         clock.Now,
	})
}

func TestManager_RestoresBeforeSubscribing(t *testing.T) {
	storage := newMemStorage()
	storage.filters[1] = []byte(`{"campaignId":42,"dateFrom":null,"dateTo":null}`)
	fetcher := &countingFetcher{}
	clock := &fakeClock{now: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}

	s := newTestManager(storage, fetcher, clock).Get(context.Background(), 1)

	snap := s.Store.Snapshot()
	require.NotNil(t, snap.CampaignID)
	assert.Equal(t, int64(42), *snap.CampaignID)
	assert.Zero(t, storage.writeCount(), "restoring must not write back")

	require.Eventually(t, func() bool { return fetcher.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, s.Presets.All(), 2)
}

func TestManager_ReusesSession(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := newTestManager(newMemStorage(), &countingFetcher{}, clock)

	first := m.Get(context.Background(), 1)
	second := m.Get(context.Background(), 1)
	other := m.Get(context.Background(), 2)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, m.Len())
}

func TestManager_ConcurrentGetBuildsOnce(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := newTestManager(newMemStorage(), &countingFetcher{}, clock)

	var wg sync.WaitGroup
	got := make([]*Session, 10)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = m.Get(context.Background(), 7)
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}

func TestManager_EvictDropsIdleSessions(t *testing.T) {
	storage := newMemStorage()
	clock := &fakeClock{now: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(storage, &countingFetcher{}, clock)

	idle := m.Get(context.Background(), 1)
	clock.Advance(20 * time.Minute)
	m.Get(context.Background(), 2)
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, m.Evict(30*time.Minute))
	assert.Equal(t, 1, m.Len())

	idle.Store.SetCampaignID(models.Int64Ptr(9))
	assert.Zero(t, storage.writeCount(), "evicted session must be detached")

	fresh := m.Get(context.Background(), 1)
	assert.NotSame(t, idle, fresh)
}

func TestManager_WritesThroughAndReloads(t *testing.T) {
	storage := newMemStorage()
	clock := &fakeClock{now: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(storage, &countingFetcher{}, clock)

	m.Get(context.Background(), 1).Store.SetCampaignID(models.Int64Ptr(5))
	_, err := m.Get(context.Background(), 1).Presets.SaveCurrent(context.Background(), m.Get(context.Background(), 1).Store.Snapshot(), "Мой")
	require.NoError(t, err)
	m.Close()

	reloaded := newTestManager(storage, &countingFetcher{}, clock).Get(context.Background(), 1)
	require.NotNil(t, reloaded.Store.Snapshot().CampaignID)
	assert.Equal(t, int64(5), *reloaded.Store.Snapshot().CampaignID)
	assert.Len(t, reloaded.Presets.Custom(), 1)
}

func TestManager_GetKeepsSessionAliveAgainstEvict(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(newMemStorage(), &countingFetcher{}, clock)

	for i := 0; i < 100; i++ {
		m.Get(context.Background(), 1)
		clock.Advance(time.Hour)

		stop := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					m.Evict(30 * time.Minute)
				}
			}
		}()

		first := m.Get(context.Background(), 1)
		second := m.Get(context.Background(), 1)
		close(stop)
		wg.Wait()

		assert.Same(t, first, second, "a session handed out by Get must stay registered")
	}
}
