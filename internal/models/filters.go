package models

import "strings"

// Labels shown for the "all" state of each filter.
const (
	AllMarketplacesLabel = "Все маркетплейсы"
	AllWarehousesLabel   = "Все склады"
	AllCategoriesLabel   = "Все категории"
	allShortLabel        = "Все"
)

var allSentinels = map[string]bool{
	allShortLabel:        true,
	AllMarketplacesLabel: true,
	AllWarehousesLabel:   true,
	AllCategoriesLabel:   true,
}

// IsAllSentinel reports whether s is one of the legacy "no restriction" labels.
func IsAllSentinel(s string) bool {
	return allSentinels[strings.TrimSpace(s)]
}

func MarketplaceOptions() []string {
	return []string{
		AllMarketplacesLabel,
		"Wildberries",
		"Ozon",
		"Яндекс.Маркет",
	}
}

func WarehouseOptions() []string {
	return []string{
		AllWarehousesLabel,
		"Коледино",
		"Подольск",
		"Казань",
		"Электросталь",
	}
}

func CategoryOptions() []string {
	return []string{
		AllCategoriesLabel,
		"Электроника",
		"Одежда",
		"Бытовая техника",
	}
}

// ParseOption turns a picked label into a filter value.
func ParseOption(text string) Filter[string] {
	text = strings.TrimSpace(text)
	if text == "" || IsAllSentinel(text) {
		return All[string]()
	}
	return Specific(text)
}

func MarketplaceDisplayName(f Filter[string]) string {
	return displayName(f, AllMarketplacesLabel)
}

func WarehouseDisplayName(f Filter[string]) string {
	return displayName(f, AllWarehousesLabel)
}

func CategoryDisplayName(f Filter[string]) string {
	return displayName(f, AllCategoriesLabel)
}

func displayName(f Filter[string], allLabel string) string {
	if v, ok := f.Value(); ok {
		return v
	}
	return allLabel
}

// IsOption reports whether text is one of the picker options.
func IsOption(options []string, text string) bool {
	for _, o := range options {
		if o == text {
			return true
		}
	}
	return false
}
