// Package persistence keeps the campaign scope of a session in durable
// storage: storage seeds the store once at session start, and every later
// change of campaignId, dateFrom or dateTo is written through immediately.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketai-bot/internal/filters"
	"marketai-bot/internal/models"

	"go.uber.org/zap"
)

// Storage keeps the serialized filter slice of a user.
// LoadFilterState returns nil data and no error when nothing was saved yet.
type Storage interface {
	LoadFilterState(ctx context.Context, userID int64) ([]byte, error)
	SaveFilterState(ctx context.Context, userID int64, data []byte) error
}

const defaultWriteTimeout = 3 * time.Second

type Bridge struct {
	userID       int64
	storage      Storage
	logger       *zap.Logger
	now          func() time.Time
	writeTimeout time.Duration
}

type Option func(*Bridge)

func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		b.now = now
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.writeTimeout = d
		}
	}
}

func New(userID int64, storage Storage, logger *zap.Logger, opts ...Option) *Bridge {
	b := &Bridge{
		userID:       userID,
		storage:      storage,
		logger:       logger,
		now:          time.Now,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Restore returns the initial selection of a session: defaults with the
// persisted campaign scope laid over them. It never fails.
func (b *Bridge) Restore(ctx context.Context) models.FilterSelection {
	sel := models.DefaultSelection(b.now())

	data, err := b.storage.LoadFilterState(ctx, b.userID)
	if err != nil {
		b.logger.Warn("failed to load persisted filters, using defaults",
			zap.Int64("user_id", b.userID),
			zap.Error(err),
		)
		return sel
	}
	if len(data) == 0 {
		return sel
	}

	var scope models.MetricsScope
	if err := json.Unmarshal(data, &scope); err != nil {
		b.logger.Warn("corrupted persisted filters, using defaults",
			zap.Int64("user_id", b.userID),
			zap.Error(err),
		)
		return sel
	}

	sel.CampaignID = scope.CampaignID
	sel.DateFrom = scope.DateFrom
	sel.DateTo = scope.DateTo

	b.logger.Debug("persisted filters restored",
		zap.Int64("user_id", b.userID),
		zap.Int64p("campaign_id", scope.CampaignID),
	)

	return sel
}

// Attach starts writing the campaign scope of store through to storage.
// The returned function stops it.
func (b *Bridge) Attach(store *filters.Store) func() {
	return store.Subscribe(func(prev, next models.FilterSelection) {
		scope := next.MetricsScope()
		if prev.MetricsScope().Equal(scope) {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), b.writeTimeout)
		defer cancel()

		if err := b.Save(ctx, scope); err != nil {
			b.logger.Error("failed to write through filters",
				zap.Int64("user_id", b.userID),
				zap.Error(err),
			)
		}
	})
}

// Save writes scope to storage.
func (b *Bridge) Save(ctx context.Context, scope models.MetricsScope) error {
	data, err := json.Marshal(scope)
	if err != nil {
		return fmt.Errorf("marshal filter state: %w", err)
	}

	if err := b.storage.SaveFilterState(ctx, b.userID, data); err != nil {
		return fmt.Errorf("save filter state: %w", err)
	}

	return nil
}
