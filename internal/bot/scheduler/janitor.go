package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Evictor drops sessions that have been idle for longer than the given ttl.
type Evictor interface {
	Evict(idle time.Duration) int
	Len() int
}

// Janitor periodically closes idle user sessions so their consumers stop
// following the filter store.
type Janitor struct {
	sessions Evictor
	interval time.Duration
	idleTTL  time.Duration
	logger   *zap.Logger
}

func New(sessions Evictor, interval, idleTTL time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		sessions: sessions,
		interval: interval,
		idleTTL:  idleTTL,
		logger:   logger,
	}
}

// Start blocks until ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("session janitor started",
		zap.Duration("interval", j.interval),
		zap.Duration("idle_ttl", j.idleTTL),
	)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("session janitor stopped")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	evicted := j.sessions.Evict(j.idleTTL)
	if evicted == 0 {
		j.logger.Debug("no idle sessions")
		return
	}

	j.logger.Info("evicted idle sessions",
		zap.Int("evicted", evicted),
		zap.Int("active", j.sessions.Len()),
	)
}
