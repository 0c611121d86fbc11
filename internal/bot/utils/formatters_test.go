package utils

import (
	"errors"
	"testing"
	"time"

	"marketai-bot/internal/api/marketai"
	"marketai-bot/internal/consumers"
	"marketai-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{0, "", "0.00 ₽"},
		{999.5, "RUB", "999.50 ₽"},
		{1234567.891, "RUB", "1 234 567.89 ₽"},
		{-1500, "USD", "-1 500.00 $"},
		{42, "KZT", "42.00 KZT"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatMoney(tc.amount, tc.currency))
	}
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `WB \- 01\.01\.2025 \(тест\)\!`, EscapeMarkdown("WB - 01.01.2025 (тест)!"))
}

func TestFormatSelection(t *testing.T) {
	sel := models.DefaultSelection(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	sel.Marketplace = models.Specific("Яндекс.Маркет")
	sel.CampaignID = models.Int64Ptr(42)
	sel.DateFrom = models.TimePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	out := FormatSelection(sel, "")

	assert.Contains(t, out, `Яндекс\.Маркет`)
	assert.Contains(t, out, models.AllWarehousesLabel)
	assert.Contains(t, out, `\#42`)
	assert.Contains(t, out, `01\.01\.2025`)
	assert.Contains(t, out, "По: не задана")

	assert.Contains(t, FormatSelection(sel, "Весна"), "Кампания: Весна")
}

func TestFormatPresets(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	out := FormatPresets(models.DefaultPresets(now), nil)
	assert.Contains(t, out, "*Стандартные*")
	assert.Contains(t, out, "*Мои пресеты*")
	assert.Contains(t, out, "Пока нет сохранённых пресетов")

	custom := []models.PresetConfig{{ID: "custom-1", Name: "Q1", Marketplace: models.Specific("Ozon"), StartDate: now, EndDate: now}}
	out = FormatPresets(nil, custom)
	assert.Contains(t, out, "*Q1*")
	assert.Contains(t, out, "Ozon")
}

func TestFormatMetrics(t *testing.T) {
	t.Run("no campaign", func(t *testing.T) {
		assert.Contains(t, FormatMetrics(consumers.MetricsState{}), "Выберите кампанию")
	})

	scope := models.MetricsScope{CampaignID: models.Int64Ptr(7)}

	t.Run("loading", func(t *testing.T) {
		out := FormatMetrics(consumers.MetricsState{Scope: scope, Loading: true})
		assert.Contains(t, out, "Загрузка")
	})

	t.Run("totals", func(t *testing.T) {
		rows := []marketai.FinancialMetric{
			{SoldCount: 2, SoldRetailAmount: 1000, SellerTotal: 800},
			{SoldCount: 1, SoldRetailAmount: 500, SellerTotal: 400, PenaltyAmount: 50},
		}
		out := FormatMetrics(consumers.MetricsState{
			Scope:  scope,
			Rows:   rows,
			Totals: marketai.SumMetrics(rows),
			Meta:   marketai.FinancialMeta{Currency: "RUB"},
		})
		assert.Contains(t, out, `\#7`)
		assert.Contains(t, out, "*Продано:* 3")
		assert.Contains(t, out, `1 500\.00 ₽`)
		assert.Contains(t, out, `50\.00 ₽`)
	})

	t.Run("failed without data", func(t *testing.T) {
		out := FormatMetrics(consumers.MetricsState{Scope: scope, Err: errors.New("boom")})
		assert.Contains(t, out, "Не удалось загрузить метрики")
	})
}
