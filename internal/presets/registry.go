// Package presets manages the saved filter presets of one user.
package presets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"marketai-bot/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keeps the serialized preset collection of a user.
// LoadPresets returns nil data and no error when nothing was saved yet.
type Storage interface {
	LoadPresets(ctx context.Context, userID int64) ([]byte, error)
	SavePresets(ctx context.Context, userID int64, data []byte) error
}

type Registry struct {
	userID  int64
	storage Storage
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	mu     sync.RWMutex
	stored []models.PresetConfig
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithIDGenerator overrides the suffix generator of custom preset ids.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.newID = gen
	}
}

func New(userID int64, storage Storage, logger *zap.Logger, opts ...Option) *Registry {
	r := &Registry{
		userID:  userID,
		storage: storage,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the in-memory collection with the persisted one. A missing or
// unreadable collection yields an empty one.
func (r *Registry) Load(ctx context.Context) []models.PresetConfig {
	loaded := r.read(ctx)

	r.mu.Lock()
	r.stored = loaded
	r.mu.Unlock()

	return r.All()
}

func (r *Registry) read(ctx context.Context) []models.PresetConfig {
	data, err := r.storage.LoadPresets(ctx, r.userID)
	if err != nil {
		r.logger.Warn("failed to load presets, starting empty",
			zap.Int64("user_id", r.userID),
			zap.Error(err),
		)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var presets []models.PresetConfig
	if err := json.Unmarshal(data, &presets); err != nil {
		r.logger.Warn("corrupted presets payload, starting empty",
			zap.Int64("user_id", r.userID),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return nil
	}

	return presets
}

// Add stores p under a fresh custom id and persists the whole collection.
// On a failed write the collection is left as it was.
func (r *Registry) Add(ctx context.Context, p models.PresetConfig) (models.PresetConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = models.CustomPresetPrefix + r.newID()
	if strings.TrimSpace(p.Name) == "" {
		p.Name = fmt.Sprintf("Пресет %d", len(r.stored)+1)
	}

	next := make([]models.PresetConfig, 0, len(r.stored)+1)
	next = append(next, r.stored...)
	next = append(next, p)

	if err := r.persist(ctx, next); err != nil {
		return models.PresetConfig{}, err
	}
	r.stored = next

	r.logger.Info("preset saved",
		zap.Int64("user_id", r.userID),
		zap.String("preset_id", p.ID),
		zap.String("name", p.Name),
	)

	return p, nil
}

// SaveCurrent stores the preset-able fields of sel as a new preset.
func (r *Registry) SaveCurrent(ctx context.Context, sel models.FilterSelection, name string) (models.PresetConfig, error) {
	return r.Add(ctx, models.PresetFromSelection(sel, name))
}

// Remove deletes the preset with the given id. Unknown ids are ignored.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.PresetConfig, 0, len(r.stored))
	for _, p := range r.stored {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(r.stored) {
		return nil
	}

	if err := r.persist(ctx, next); err != nil {
		return err
	}
	r.stored = next

	r.logger.Info("preset deleted",
		zap.Int64("user_id", r.userID),
		zap.String("preset_id", id),
	)

	return nil
}

func (r *Registry) persist(ctx context.Context, presets []models.PresetConfig) error {
	data, err := json.Marshal(presets)
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}

	if err := r.storage.SavePresets(ctx, r.userID, data); err != nil {
		r.logger.Error("failed to persist presets",
			zap.Int64("user_id", r.userID),
			zap.Int("count", len(presets)),
			zap.Error(err),
		)
		return fmt.Errorf("save presets: %w", err)
	}

	return nil
}

// All returns the built-in presets followed by the stored ones.
func (r *Registry) All() []models.PresetConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := models.DefaultPresets(r.now())
	return append(out, r.stored...)
}

// Custom returns the stored presets only.
func (r *Registry) Custom() []models.PresetConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PresetConfig, len(r.stored))
	copy(out, r.stored)
	return out
}

// ListByOrigin splits All into built-in and user presets, keeping order.
func (r *Registry) ListByOrigin() (defaults, custom []models.PresetConfig) {
	for _, p := range r.All() {
		if p.IsCustom() {
			custom = append(custom, p)
		} else {
			defaults = append(defaults, p)
		}
	}
	return defaults, custom
}

func (r *Registry) Find(id string) (models.PresetConfig, bool) {
	for _, p := range r.All() {
		if p.ID == id {
			return p, true
		}
	}
	return models.PresetConfig{}, false
}
