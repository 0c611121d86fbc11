// Package session wires the per-user filter components together and keeps
// them alive while the user is active.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"marketai-bot/internal/consumers"
	"marketai-bot/internal/filters"
	"marketai-bot/internal/persistence"
	"marketai-bot/internal/presets"

	"go.uber.org/zap"
)

// Session is the filter state of one user. All components share the same
// store, which is the only place filters are written.
type Session struct {
	UserID  int64
	Store   *filters.Store
	Presets *presets.Registry
	Bridge  *persistence.Bridge
	Metrics *consumers.MetricsConsumer

	lastSeen atomic.Int64
	detach   []func()
}

// LastSeen returns the last time the session was requested.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) close() {
	for i := len(s.detach) - 1; i >= 0; i-- {
		s.detach[i]()
	}
	s.detach = nil
}

type Deps struct {
	FilterStorage persistence.Storage
	PresetStorage presets.Storage
	Fetcher       consumers.Fetcher
	Notifier      consumers.Notifier
	Logger        *zap.Logger

	FetchTimeout time.Duration
	Clock        func() time.Time
}

type entry struct {
	ready   chan struct{}
	session *Session
}

type Manager struct {
	deps Deps
	now  func() time.Time

	mu       sync.Mutex
	sessions map[int64]*entry
}

func NewManager(deps Deps) *Manager {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &Manager{
		deps:     deps,
		now:      now,
		sessions: make(map[int64]*entry),
	}
}

// Get returns the session of a user, building it on first use.
func (m *Manager) Get(ctx context.Context, userID int64) *Session {
	m.mu.Lock()
	e, ok := m.sessions[userID]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		m.sessions[userID] = e
	} else {
		// touched under mu so Evict cannot drop it between lookup and use
		select {
		case <-e.ready:
			e.session.touch(m.now())
		default:
		}
	}
	m.mu.Unlock()

	if ok {
		<-e.ready
		return e.session
	}

	e.session = m.build(ctx, userID)
	close(e.ready)
	return e.session
}

// build restores persisted filters before anything subscribes to the store,
// so restoring never triggers a write back.
func (m *Manager) build(ctx context.Context, userID int64) *Session {
	log := m.deps.Logger

	bridge := persistence.New(userID, m.deps.FilterStorage, log, persistence.WithClock(m.now))
	store := filters.NewStore(bridge.Restore(ctx), filters.WithClock(m.now))

	s := &Session{
		UserID: userID,
		Store:  store,
		Bridge: bridge,
	}
	s.detach = append(s.detach, bridge.Attach(store))

	s.Presets = presets.New(userID, m.deps.PresetStorage, log, presets.WithClock(m.now))
	s.Presets.Load(ctx)

	s.Metrics = consumers.NewMetricsConsumer(userID, m.deps.Fetcher, m.deps.Notifier, log,
		consumers.WithFetchTimeout(m.deps.FetchTimeout),
		consumers.WithClock(m.now),
	)
	s.detach = append(s.detach, s.Metrics.Attach(store))

	s.touch(m.now())

	log.Debug("session started", zap.Int64("user_id", userID))

	return s
}

// Evict closes sessions idle for longer than idle and returns how many were
// dropped.
func (m *Manager) Evict(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var stale []*Session
	for id, e := range m.sessions {
		select {
		case <-e.ready:
		default:
			continue
		}
		if e.session.LastSeen().Before(cutoff) {
			stale = append(stale, e.session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
		m.deps.Logger.Debug("session evicted", zap.Int64("user_id", s.UserID))
	}

	return len(stale)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close drops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	entries := m.sessions
	m.sessions = make(map[int64]*entry)
	m.mu.Unlock()

	for _, e := range entries {
		<-e.ready
		e.session.close()
	}
}
