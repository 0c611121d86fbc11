package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-06-01", "01.06.2025", " 2025-06-01T00:00:00Z "} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(date(2025, 6, 1)), s)
	}

	_, err := ParseDate("June 1st")
	assert.Error(t, err)
}

func TestParseDateRange(t *testing.T) {
	cases := []string{
		"01.01.2025 - 31.01.2025",
		"2025-01-01 2025-01-31",
		"2025-01-01 - 2025-01-31",
		"01.01.2025—31.01.2025",
	}

	for _, text := range cases {
		from, to, err := ParseDateRange(text)
		require.NoError(t, err, text)
		assert.True(t, from.Equal(date(2025, 1, 1)), text)
		assert.True(t, to.Equal(date(2025, 1, 31)), text)
	}

	_, _, err := ParseDateRange("01.01.2025")
	assert.Error(t, err)
}

func TestMetricsScopeEqual(t *testing.T) {
	a := MetricsScope{CampaignID: Int64Ptr(1), DateFrom: TimePtr(date(2025, 1, 1))}
	b := MetricsScope{CampaignID: Int64Ptr(1), DateFrom: TimePtr(date(2025, 1, 1))}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(MetricsScope{CampaignID: Int64Ptr(2), DateFrom: a.DateFrom}))
	assert.False(t, a.Equal(MetricsScope{CampaignID: Int64Ptr(1)}))
	assert.True(t, MetricsScope{}.Equal(MetricsScope{}))
}

func TestCloneSharesNoPointers(t *testing.T) {
	sel := DefaultSelection(date(2025, 1, 1))
	sel.CampaignID = Int64Ptr(7)
	sel.DateTo = TimePtr(date(2025, 2, 1))

	clone := sel.Clone()
	*clone.CampaignID = 8
	*clone.DateTo = date(2030, 1, 1)

	assert.Equal(t, int64(7), *sel.CampaignID)
	assert.True(t, sel.DateTo.Equal(date(2025, 2, 1)))
}

func TestDefaultPresets(t *testing.T) {
	now := date(2025, 3, 31)
	presets := DefaultPresets(now)

	require.Len(t, presets, 2)
	assert.Equal(t, PresetAllDefault, presets[0].ID)
	assert.True(t, presets[0].StartDate.Equal(date(2025, 3, 24)))
	assert.Equal(t, PresetWBElectronics, presets[1].ID)
	assert.True(t, presets[1].StartDate.Equal(date(2025, 3, 1)))
	assert.True(t, presets[1].Marketplace.Equal(Specific("Wildberries")))

	for _, p := range presets {
		assert.False(t, p.IsCustom())
		assert.True(t, p.EndDate.Equal(now))
	}
}
