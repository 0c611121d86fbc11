package models

import (
	"strings"
	"time"
)

// CustomPresetPrefix marks presets created by the user.
const CustomPresetPrefix = "custom-"

// PresetConfig is a named, immutable snapshot of the preset-able filter fields.
type PresetConfig struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Marketplace Filter[string] `json:"marketplace"`
	Warehouse   Filter[string] `json:"warehouse"`
	Category    Filter[string] `json:"category"`
	StartDate   time.Time      `json:"startDate"`
	EndDate     time.Time      `json:"endDate"`
}

func (p PresetConfig) IsCustom() bool {
	return strings.HasPrefix(p.ID, CustomPresetPrefix)
}

func (p PresetConfig) Equal(other PresetConfig) bool {
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Marketplace.Equal(other.Marketplace) &&
		p.Warehouse.Equal(other.Warehouse) &&
		p.Category.Equal(other.Category) &&
		p.StartDate.Equal(other.StartDate) &&
		p.EndDate.Equal(other.EndDate)
}

// PresetFromSelection copies the preset-able fields of s.
func PresetFromSelection(s FilterSelection, name string) PresetConfig {
	return PresetConfig{
		Name:        name,
		Marketplace: s.Marketplace,
		Warehouse:   s.Warehouse,
		Category:    s.Category,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
	}
}

// Built-in preset ids.
const (
	PresetAllDefault    = "all-default"
	PresetWBElectronics = "wb-electronics"
)

// DefaultPresets returns the built-in presets relative to now.
func DefaultPresets(now time.Time) []PresetConfig {
	return []PresetConfig{
		{
			ID:          PresetAllDefault,
			Name:        "Все площадки • 7 дней",
			Marketplace: All[string](),
			Warehouse:   All[string](),
			Category:    All[string](),
			StartDate:   now.AddDate(0, 0, -7),
			EndDate:     now,
		},
		{
			ID:          PresetWBElectronics,
			Name:        "WB • Электроника • 30 дней",
			Marketplace: Specific("Wildberries"),
			Warehouse:   All[string](),
			Category:    Specific("Электроника"),
			StartDate:   now.AddDate(0, 0, -30),
			EndDate:     now,
		},
	}
}
