package filters

import (
	"math/rand"
	"testing"
	"time"

	"marketai-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock() time.Time {
	return day("2025-05-20")
}

func newTestStore() *Store {
	return NewStore(models.DefaultSelection(fixedClock()), WithClock(fixedClock))
}

func TestStore_DefaultsUseAllFilters(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot()

	assert.True(t, snap.Marketplace.IsAll())
	assert.True(t, snap.Warehouse.IsAll())
	assert.True(t, snap.Category.IsAll())
	assert.Nil(t, snap.CampaignID)
	assert.Nil(t, snap.DateFrom)
	assert.Nil(t, snap.DateTo)
	assert.True(t, snap.StartDate.Equal(fixedClock()))
}

func TestStore_SetDateToBeforeDateFromClampsDateFrom(t *testing.T) {
	s := newTestStore()

	s.SetField(models.FieldDateFrom, "2025-06-10")
	s.SetField(models.FieldDateTo, "2025-06-01")

	snap := s.Snapshot()
	require.NotNil(t, snap.DateFrom)
	require.NotNil(t, snap.DateTo)
	assert.Equal(t, "2025-06-01", models.FormatDate(*snap.DateFrom))
	assert.Equal(t, "2025-06-01", models.FormatDate(*snap.DateTo))
}

func TestStore_SetDateFromAfterDateToClampsDateTo(t *testing.T) {
	s := newTestStore()

	s.SetDateTo(models.TimePtr(day("2025-06-01")))
	s.SetDateFrom(models.TimePtr(day("2025-06-10")))

	snap := s.Snapshot()
	assert.Equal(t, "2025-06-10", models.FormatDate(*snap.DateFrom))
	assert.Equal(t, "2025-06-10", models.FormatDate(*snap.DateTo))
}

func TestStore_DateInvariantHoldsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newTestStore()
	base := day("2025-01-01")

	for i := 0; i < 500; i++ {
		var value any
		if rng.Intn(6) == 0 {
			value = nil
		} else {
			value = base.AddDate(0, 0, rng.Intn(60))
		}

		field := models.FieldDateFrom
		if rng.Intn(2) == 0 {
			field = models.FieldDateTo
		}
		s.SetField(field, value)

		snap := s.Snapshot()
		if snap.DateFrom != nil && snap.DateTo != nil {
			require.False(t, snap.DateTo.Before(*snap.DateFrom), "step %d: %v > %v", i, snap.DateFrom, snap.DateTo)
		}
	}
}

func TestStore_SetDateRangeIsAtomicAndOrdered(t *testing.T) {
	s := newTestStore()
	var seen []models.FilterSelection
	s.Subscribe(func(_, next models.FilterSelection) {
		seen = append(seen, next)
	})

	s.SetDateRange(day("2025-03-31"), day("2025-01-01"))

	require.Len(t, seen, 1)
	snap := s.Snapshot()
	assert.Equal(t, "2025-01-01", models.FormatDate(snap.StartDate))
	assert.Equal(t, "2025-03-31", models.FormatDate(snap.EndDate))
}

func TestStore_ApplyPresetLeavesCampaignScopeAlone(t *testing.T) {
	s := newTestStore()
	s.SetCampaignID(models.Int64Ptr(42))
	s.SetMetricsRange(models.TimePtr(day("2025-06-01")), models.TimePtr(day("2025-06-30")))
	s.SetMarketplace(models.Specific("Ozon"))

	before := s.Snapshot().MetricsScope()

	s.ApplyPreset(models.PresetConfig{
		ID:          "custom-1",
		Name:        "Q1",
		Marketplace: models.Specific("Wildberries"),
		Warehouse:   models.All[string](),
		Category:    models.Specific("Одежда"),
		StartDate:   day("2025-01-01"),
		EndDate:     day("2025-03-31"),
	})

	snap := s.Snapshot()
	assert.True(t, before.Equal(snap.MetricsScope()))
	assert.Equal(t, models.Specific("Wildberries"), snap.Marketplace)
	assert.Equal(t, models.Specific("Одежда"), snap.Category)
	assert.True(t, snap.Warehouse.IsAll())
	assert.Equal(t, "2025-01-01", models.FormatDate(snap.StartDate))
	assert.Equal(t, "2025-03-31", models.FormatDate(snap.EndDate))
}

func TestStore_ResetRestoresDefaults(t *testing.T) {
	s := newTestStore()
	s.SetMarketplace(models.Specific("Ozon"))
	s.SetCampaignID(models.Int64Ptr(7))
	s.SetDateFrom(models.TimePtr(day("2025-06-01")))

	s.Reset()

	assert.True(t, s.Snapshot().Equal(models.DefaultSelection(fixedClock())))
}

func TestStore_SetFieldIgnoresWrongTypes(t *testing.T) {
	s := newTestStore()
	calls := 0
	s.Subscribe(func(_, _ models.FilterSelection) { calls++ })

	s.SetField(models.FieldCampaignID, "not a number")
	s.SetField(models.FieldDateFrom, "yesterday-ish")
	s.SetField(models.FieldMarketplace, 17)
	s.SetField(models.Field("unknown"), "x")

	assert.Zero(t, calls)
	assert.Nil(t, s.Snapshot().CampaignID)
}

func TestStore_SentinelStringMeansAll(t *testing.T) {
	s := newTestStore()

	s.SetField(models.FieldMarketplace, "Wildberries")
	assert.Equal(t, models.Specific("Wildberries"), s.Snapshot().Marketplace)

	s.SetField(models.FieldMarketplace, models.AllMarketplacesLabel)
	assert.True(t, s.Snapshot().Marketplace.IsAll())
}

func TestStore_ListenersSeePrevAndNextInOrder(t *testing.T) {
	s := newTestStore()
	var order []string
	var lastPrev, lastNext models.FilterSelection

	s.Subscribe(func(prev, next models.FilterSelection) {
		lastPrev, lastNext = prev, next
		order = append(order, "first")
	})
	unsubscribe := s.Subscribe(func(_, _ models.FilterSelection) {
		order = append(order, "second")
	})

	s.SetCampaignID(models.Int64Ptr(1))
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Nil(t, lastPrev.CampaignID)
	require.NotNil(t, lastNext.CampaignID)
	assert.Equal(t, int64(1), *lastNext.CampaignID)

	unsubscribe()
	unsubscribe()
	s.SetCampaignID(nil)
	assert.Equal(t, []string{"first", "second", "first"}, order)
}

func TestStore_NoOpMutationDoesNotBroadcast(t *testing.T) {
	s := newTestStore()
	calls := 0
	s.Subscribe(func(_, _ models.FilterSelection) { calls++ })

	s.SetMarketplace(models.All[string]())
	s.SetCampaignID(nil)

	assert.Zero(t, calls)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := newTestStore()
	s.SetCampaignID(models.Int64Ptr(5))

	snap := s.Snapshot()
	*snap.CampaignID = 99

	assert.Equal(t, int64(5), *s.Snapshot().CampaignID)
}

func TestStore_SetAllMergesOnlyGivenFields(t *testing.T) {
	s := newTestStore()
	s.SetCategory(models.Specific("Одежда"))
	s.SetMetricsRange(models.TimePtr(day("2025-06-01")), models.TimePtr(day("2025-06-30")))

	ozon := models.Specific("Ozon")
	s.SetAll(models.SelectionPatch{
		Marketplace: &ozon,
		CampaignID:  models.Int64Ptr(77),
	})

	snap := s.Snapshot()
	assert.True(t, snap.Marketplace.Equal(ozon))
	assert.True(t, snap.Category.Equal(models.Specific("Одежда")), "fields outside the patch are kept")
	require.NotNil(t, snap.CampaignID)
	assert.Equal(t, int64(77), *snap.CampaignID)
	require.NotNil(t, snap.DateFrom)
	assert.Equal(t, "2025-06-01", models.FormatDate(*snap.DateFrom))
	assert.True(t, snap.StartDate.Equal(fixedClock()))
}

func TestStore_SetAllIsOneBroadcast(t *testing.T) {
	s := newTestStore()

	var calls int
	s.Subscribe(func(prev, next models.FilterSelection) {
		calls++
		assert.Nil(t, prev.CampaignID)
		assert.True(t, prev.Marketplace.IsAll())
		require.NotNil(t, next.CampaignID)
		assert.False(t, next.Marketplace.IsAll())
	})

	wb := models.Specific("Wildberries")
	s.SetAll(models.SelectionPatch{Marketplace: &wb, CampaignID: models.Int64Ptr(1)})

	assert.Equal(t, 1, calls)
}

func TestStore_SetAllClearsScope(t *testing.T) {
	s := newTestStore()
	s.SetCampaignID(models.Int64Ptr(5))
	s.SetMetricsRange(models.TimePtr(day("2025-06-01")), models.TimePtr(day("2025-06-30")))

	s.SetAll(models.SelectionPatch{ClearCampaign: true, ClearMetricsDates: true})

	snap := s.Snapshot()
	assert.Nil(t, snap.CampaignID)
	assert.Nil(t, snap.DateFrom)
	assert.Nil(t, snap.DateTo)
}

func TestStore_SetAllKeepsDateInvariant(t *testing.T) {
	s := newTestStore()
	s.SetDateFrom(models.TimePtr(day("2025-06-10")))

	s.SetAll(models.SelectionPatch{DateTo: models.TimePtr(day("2025-06-01"))})

	snap := s.Snapshot()
	require.NotNil(t, snap.DateFrom)
	require.NotNil(t, snap.DateTo)
	assert.Equal(t, "2025-06-01", models.FormatDate(*snap.DateFrom))
	assert.Equal(t, "2025-06-01", models.FormatDate(*snap.DateTo))
}
