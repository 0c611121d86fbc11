// Package filters holds the active filter selection of a session.
//
// Every mutation builds a new FilterSelection and swaps it in atomically, so a
// reader never sees a half-applied change. Listeners are notified
// synchronously, in mutation order, after the swap.
package filters

import (
	"sync"
	"sync/atomic"
	"time"

	"marketai-bot/internal/models"
)

// Listener receives the previous and the new snapshot after a change.
// Listeners must not mutate the store they are subscribed to.
type Listener func(prev, next models.FilterSelection)

type Store struct {
	current atomic.Pointer[models.FilterSelection]

	// mu serializes mutations together with their broadcast.
	mu        sync.Mutex
	listeners map[uint64]Listener
	order     []uint64
	nextID    uint64

	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used by Reset.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(initial models.FilterSelection, opts ...Option) *Store {
	s := &Store{
		listeners: make(map[uint64]Listener),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap := normalize(initial.Clone(), "")
	s.current.Store(&snap)

	return s
}

// Snapshot returns the current selection. The value is a private copy.
func (s *Store) Snapshot() models.FilterSelection {
	return s.current.Load().Clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// SetField updates one attribute. Values of the wrong type are ignored.
// A nil value clears campaignId, dateFrom and dateTo.
func (s *Store) SetField(field models.Field, value any) {
	s.update(func(sel *models.FilterSelection) models.Field {
		switch field {
		case models.FieldMarketplace:
			if f, ok := asFilter(value); ok {
				sel.Marketplace = f
			}
		case models.FieldWarehouse:
			if f, ok := asFilter(value); ok {
				sel.Warehouse = f
			}
		case models.FieldCategory:
			if f, ok := asFilter(value); ok {
				sel.Category = f
			}
		case models.FieldStartDate:
			if t, ok := asTime(value); ok && t != nil {
				sel.StartDate = *t
			}
		case models.FieldEndDate:
			if t, ok := asTime(value); ok && t != nil {
				sel.EndDate = *t
			}
		case models.FieldCampaignID:
			if id, ok := asInt64(value); ok {
				sel.CampaignID = id
			}
		case models.FieldDateFrom:
			if t, ok := asTime(value); ok {
				sel.DateFrom = t
			}
		case models.FieldDateTo:
			if t, ok := asTime(value); ok {
				sel.DateTo = t
			}
		}
		return field
	})
}

func (s *Store) SetMarketplace(f models.Filter[string]) {
	s.SetField(models.FieldMarketplace, f)
}

func (s *Store) SetWarehouse(f models.Filter[string]) {
	s.SetField(models.FieldWarehouse, f)
}

func (s *Store) SetCategory(f models.Filter[string]) {
	s.SetField(models.FieldCategory, f)
}

func (s *Store) SetCampaignID(id *int64) {
	s.SetField(models.FieldCampaignID, id)
}

func (s *Store) SetDateFrom(t *time.Time) {
	s.SetField(models.FieldDateFrom, t)
}

func (s *Store) SetDateTo(t *time.Time) {
	s.SetField(models.FieldDateTo, t)
}

// SetDateRange replaces the dashboard range in one step.
func (s *Store) SetDateRange(start, end time.Time) {
	s.update(func(sel *models.FilterSelection) models.Field {
		if end.Before(start) {
			start, end = end, start
		}
		sel.StartDate = start
		sel.EndDate = end
		return ""
	})
}

// SetMetricsRange replaces the campaign metrics range in one step.
func (s *Store) SetMetricsRange(from, to *time.Time) {
	s.update(func(sel *models.FilterSelection) models.Field {
		if from != nil && to != nil && to.Before(*from) {
			from, to = to, from
		}
		sel.DateFrom = copyTime(from)
		sel.DateTo = copyTime(to)
		return ""
	})
}

// ApplyPreset overwrites the preset fields only. The campaign scope and its
// date range are left alone.
func (s *Store) ApplyPreset(p models.PresetConfig) {
	s.update(func(sel *models.FilterSelection) models.Field {
		sel.Marketplace = p.Marketplace
		sel.Warehouse = p.Warehouse
		sel.Category = p.Category
		sel.StartDate = p.StartDate
		sel.EndDate = p.EndDate
		return ""
	})
}

// SetAll merges patch into the selection in one step. When only one bound of
// a range is given, that bound wins the clamp.
func (s *Store) SetAll(patch models.SelectionPatch) {
	s.update(func(sel *models.FilterSelection) models.Field {
		if patch.Marketplace != nil {
			sel.Marketplace = *patch.Marketplace
		}
		if patch.Warehouse != nil {
			sel.Warehouse = *patch.Warehouse
		}
		if patch.Category != nil {
			sel.Category = *patch.Category
		}
		if patch.StartDate != nil {
			sel.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			sel.EndDate = *patch.EndDate
		}

		if patch.ClearCampaign {
			sel.CampaignID = nil
		} else if patch.CampaignID != nil {
			id := *patch.CampaignID
			sel.CampaignID = &id
		}

		if patch.ClearMetricsDates {
			sel.DateFrom, sel.DateTo = nil, nil
		} else {
			if patch.DateFrom != nil {
				sel.DateFrom = copyTime(patch.DateFrom)
			}
			if patch.DateTo != nil {
				sel.DateTo = copyTime(patch.DateTo)
			}
		}

		switch {
		case patch.DateTo != nil && patch.DateFrom == nil:
			return models.FieldDateTo
		case patch.EndDate != nil && patch.StartDate == nil:
			return models.FieldEndDate
		}
		return ""
	})
}

// Reset restores the defaults of a fresh session.
func (s *Store) Reset() {
	s.update(func(sel *models.FilterSelection) models.Field {
		*sel = models.DefaultSelection(s.now())
		return ""
	})
}

func (s *Store) update(mutate func(sel *models.FilterSelection) models.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load().Clone()
	next := prev.Clone()
	written := mutate(&next)
	next = normalize(next, written)

	if next.Equal(prev) {
		return
	}

	stored := next.Clone()
	s.current.Store(&stored)

	for _, id := range s.order {
		if l, ok := s.listeners[id]; ok {
			l(prev.Clone(), next.Clone())
		}
	}
}

// normalize enforces the ordering of both date ranges. The bound that was
// written last wins and the other one is clamped to it; in every other case
// dateTo (endDate) is clamped up to dateFrom (startDate).
func normalize(sel models.FilterSelection, written models.Field) models.FilterSelection {
	if sel.DateFrom != nil && sel.DateTo != nil && sel.DateTo.Before(*sel.DateFrom) {
		if written == models.FieldDateTo {
			sel.DateFrom = copyTime(sel.DateTo)
		} else {
			sel.DateTo = copyTime(sel.DateFrom)
		}
	}

	if sel.EndDate.Before(sel.StartDate) {
		if written == models.FieldEndDate {
			sel.StartDate = sel.EndDate
		} else {
			sel.EndDate = sel.StartDate
		}
	}

	return sel
}

func asFilter(v any) (models.Filter[string], bool) {
	switch val := v.(type) {
	case models.Filter[string]:
		return val, true
	case string:
		return models.ParseOption(val), true
	case nil:
		return models.All[string](), true
	}
	return models.Filter[string]{}, false
}

func asTime(v any) (*time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case *time.Time:
		return copyTime(val), true
	case time.Time:
		return &val, true
	case string:
		if val == "" {
			return nil, true
		}
		t, err := models.ParseDate(val)
		if err != nil {
			return nil, false
		}
		return &t, true
	}
	return nil, false
}

func asInt64(v any) (*int64, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case *int64:
		if val == nil {
			return nil, true
		}
		id := *val
		return &id, true
	case int64:
		return &val, true
	case int:
		id := int64(val)
		return &id, true
	}
	return nil, false
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
