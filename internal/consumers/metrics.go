// Package consumers holds components that derive server data from a filter
// store. They read filters only and never write them back.
package consumers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"marketai-bot/internal/api/marketai"
	"marketai-bot/internal/filters"
	"marketai-bot/internal/models"

	"go.uber.org/zap"
)

// Fetcher loads the financial report for a campaign scope.
type Fetcher interface {
	GetFinancialMetrics(ctx context.Context, params marketai.FinancialMetricsParams) (*marketai.FinancialMetricsResponse, error)
}

// Notifier shows a transient error message to the user.
type Notifier interface {
	NotifyError(userID int64, message string)
}

const defaultFetchTimeout = 15 * time.Second

// MetricsState is the derived view of one campaign scope.
type MetricsState struct {
	Scope     models.MetricsScope
	RequestID uint64
	Loading   bool
	Rows      []marketai.FinancialMetric
	Meta      marketai.FinancialMeta
	Totals    marketai.FinancialTotals
	Err       error
	UpdatedAt time.Time
}

// Empty reports whether no campaign is selected.
func (s MetricsState) Empty() bool {
	return s.Scope.CampaignID == nil
}

// MetricsConsumer fetches the financial report whenever campaignId, dateFrom
// or dateTo change. Only the result of the latest request is ever applied.
type MetricsConsumer struct {
	userID   int64
	fetcher  Fetcher
	notifier Notifier
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time

	seq atomic.Uint64

	mu     sync.Mutex
	scope  models.MetricsScope
	state  MetricsState
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*MetricsConsumer)

func WithFetchTimeout(d time.Duration) Option {
	return func(c *MetricsConsumer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *MetricsConsumer) {
		c.now = now
	}
}

func NewMetricsConsumer(userID int64, fetcher Fetcher, notifier Notifier, logger *zap.Logger, opts ...Option) *MetricsConsumer {
	c := &MetricsConsumer{
		userID:   userID,
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger,
		timeout:  defaultFetchTimeout,
		now:      time.Now,
		done:     closedChan(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach loads the current scope of store and follows its changes.
// The returned function unsubscribes and cancels any fetch in flight.
func (c *MetricsConsumer) Attach(store *filters.Store) func() {
	unsubscribe := store.Subscribe(func(prev, next models.FilterSelection) {
		scope := next.MetricsScope()
		if prev.MetricsScope().Equal(scope) {
			return
		}
		c.load(scope, true)
	})

	c.load(store.Snapshot().MetricsScope(), true)

	return func() {
		unsubscribe()
		c.mu.Lock()
		c.seq.Add(1)
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.mu.Unlock()
	}
}

// Refresh re-fetches the current scope. The caller shows the outcome, so a
// failure is not sent to the notifier.
func (c *MetricsConsumer) Refresh() {
	c.mu.Lock()
	scope := c.scope
	c.mu.Unlock()

	c.load(scope, false)
}

// Latest returns the last applied state.
func (c *MetricsConsumer) Latest() MetricsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until the latest request settles or ctx is done, then returns
// the latest state.
func (c *MetricsConsumer) Wait(ctx context.Context) (MetricsState, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
		return c.Latest(), nil
	case <-ctx.Done():
		return c.Latest(), ctx.Err()
	}
}

// load starts a fetch for scope. The id is taken under mu so ids and
// cancellations happen in the same order.
func (c *MetricsConsumer) load(scope models.MetricsScope, notify bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.seq.Add(1)

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.scope = scope

	if scope.CampaignID == nil {
		c.state = MetricsState{Scope: scope, RequestID: id, UpdatedAt: c.now()}
		c.done = closedChan()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.state = MetricsState{
		Scope:     scope,
		RequestID: id,
		Loading:   true,
		Rows:      c.state.Rows,
		Meta:      c.state.Meta,
		Totals:    c.state.Totals,
		UpdatedAt: c.state.UpdatedAt,
	}

	go c.fetch(ctx, cancel, done, id, scope, notify)
}

func (c *MetricsConsumer) fetch(ctx context.Context, cancel context.CancelFunc, done chan struct{}, id uint64, scope models.MetricsScope, notify bool) {
	defer close(done)
	defer cancel()

	resp, err := c.fetcher.GetFinancialMetrics(ctx, marketai.FinancialMetricsParams{
		CampaignID: *scope.CampaignID,
		DateFrom:   scope.DateFrom,
		DateTo:     scope.DateTo,
	})

	c.mu.Lock()
	if id != c.seq.Load() {
		c.mu.Unlock()
		c.logger.Debug("dropping stale metrics response",
			zap.Int64("user_id", c.userID),
			zap.Uint64("request_id", id),
		)
		return
	}

	next := MetricsState{Scope: scope, RequestID: id, UpdatedAt: c.now()}
	if err != nil {
		next.Err = err
		next.Rows = c.state.Rows
		next.Meta = c.state.Meta
		next.Totals = c.state.Totals
	} else {
		next.Rows = resp.Data
		next.Meta = resp.Meta
		next.Totals = marketai.SumMetrics(resp.Data)
	}
	c.state = next
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("failed to fetch financial metrics",
			zap.Int64("user_id", c.userID),
			zap.Int64("campaign_id", *scope.CampaignID),
			zap.Uint64("request_id", id),
			zap.Error(err),
		)
		if notify && c.notifier != nil {
			c.notifier.NotifyError(c.userID, errorText(err))
		}
		return
	}

	c.logger.Debug("financial metrics applied",
		zap.Int64("user_id", c.userID),
		zap.Uint64("request_id", id),
		zap.Int("rows", len(next.Rows)),
	)
}

func errorText(err error) string {
	var apiErr *marketai.APIError
	switch {
	case errors.As(err, &apiErr):
		return "Не удалось загрузить метрики: " + apiErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return "Не удалось загрузить метрики: сервер не ответил вовремя"
	default:
		return "Не удалось загрузить метрики"
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
