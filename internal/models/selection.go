package models

import (
	"fmt"
	"strings"
	"time"
)

// FilterSelection is the active filter state of one session.
//
// It carries two independent date ranges that serve different consumers:
// StartDate/EndDate scope the generic dashboard views and travel with presets,
// while DateFrom/DateTo scope campaign metrics together with CampaignID and are
// the only fields persisted across restarts. They are never unified.
type FilterSelection struct {
	Marketplace Filter[string] `json:"marketplace"`
	Warehouse   Filter[string] `json:"warehouse"`
	Category    Filter[string] `json:"category"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	CampaignID *int64     `json:"campaignId"`
	DateFrom   *time.Time `json:"dateFrom"`
	DateTo     *time.Time `json:"dateTo"`
}

// Field names a single attribute of FilterSelection.
type Field string

const (
	FieldMarketplace Field = "marketplace"
	FieldWarehouse   Field = "warehouse"
	FieldCategory    Field = "category"
	FieldStartDate   Field = "startDate"
	FieldEndDate     Field = "endDate"
	FieldCampaignID  Field = "campaignId"
	FieldDateFrom    Field = "dateFrom"
	FieldDateTo      Field = "dateTo"
)

// SelectionPatch is a partial FilterSelection. Nil fields are left alone.
// The campaign scope fields are nullable themselves, so clearing them needs
// the explicit flags.
type SelectionPatch struct {
	Marketplace *Filter[string]
	Warehouse   *Filter[string]
	Category    *Filter[string]
	StartDate   *time.Time
	EndDate     *time.Time

	CampaignID *int64
	DateFrom   *time.Time
	DateTo     *time.Time

	ClearCampaign     bool
	ClearMetricsDates bool
}

// DefaultSelection is the state of a fresh session.
func DefaultSelection(now time.Time) FilterSelection {
	return FilterSelection{
		Marketplace: All[string](),
		Warehouse:   All[string](),
		Category:    All[string](),
		StartDate:   now,
		EndDate:     now,
	}
}

// MetricsScope is the part of a selection that drives server-fetched data.
type MetricsScope struct {
	CampaignID *int64     `json:"campaignId"`
	DateFrom   *time.Time `json:"dateFrom"`
	DateTo     *time.Time `json:"dateTo"`
}

func (s FilterSelection) MetricsScope() MetricsScope {
	return MetricsScope{
		CampaignID: s.CampaignID,
		DateFrom:   s.DateFrom,
		DateTo:     s.DateTo,
	}
}

func (m MetricsScope) Equal(other MetricsScope) bool {
	return int64PtrEqual(m.CampaignID, other.CampaignID) &&
		timePtrEqual(m.DateFrom, other.DateFrom) &&
		timePtrEqual(m.DateTo, other.DateTo)
}

func (s FilterSelection) Equal(other FilterSelection) bool {
	return s.Marketplace.Equal(other.Marketplace) &&
		s.Warehouse.Equal(other.Warehouse) &&
		s.Category.Equal(other.Category) &&
		s.StartDate.Equal(other.StartDate) &&
		s.EndDate.Equal(other.EndDate) &&
		s.MetricsScope().Equal(other.MetricsScope())
}

// Clone returns a copy that shares no pointers with s.
func (s FilterSelection) Clone() FilterSelection {
	out := s
	out.CampaignID = cloneInt64(s.CampaignID)
	out.DateFrom = cloneTime(s.DateFrom)
	out.DateTo = cloneTime(s.DateTo)
	return out
}

// DateLayout is the wire format for dates sent upstream.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"02.01.2006",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate accepts ISO dates, ISO timestamps and DD.MM.YYYY.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: unsupported format", s)
}

// ParseDateRange parses "from - to", "from to" or "from—to".
func ParseDateRange(text string) (time.Time, time.Time, error) {
	text = strings.TrimSpace(text)
	for _, sep := range []string{" - ", " — ", "—", " "} {
		idx := strings.Index(text, sep)
		if idx < 0 {
			continue
		}
		from, err := ParseDate(text[:idx])
		if err != nil {
			continue
		}
		to, err := ParseDate(text[idx+len(sep):])
		if err != nil {
			continue
		}
		return from, to, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("parse date range %q: expected two dates", text)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func Int64Ptr(v int64) *int64 {
	return &v
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
