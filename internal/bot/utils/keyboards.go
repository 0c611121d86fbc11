package utils

import (
	"fmt"
	"strconv"

	"marketai-bot/internal/api/marketai"
	"marketai-bot/internal/models"

	tele "gopkg.in/telebot.v3"
)

// Reply keyboard labels.
const (
	BtnFilters = "🎛 Фильтры"
	BtnPresets = "💾 Пресеты"
	BtnMetrics = "📊 Метрики"
	BtnHelp    = "❓ Справка"

	BtnMarketplace  = "🛒 Маркетплейс"
	BtnWarehouse    = "🏬 Склад"
	BtnCategory     = "🏷 Категория"
	BtnPeriod       = "📅 Период"
	BtnCampaign     = "📣 Кампания"
	BtnMetricsDates = "🗓 Даты метрик"
	BtnShowFilters  = "👁 Показать фильтры"
	BtnReset        = "♻️ Сбросить фильтры"
	BtnBack         = "◀️ Назад"

	BtnCancel = "❌ Отмена"
	BtnYes    = "✅ Да"
	BtnNo     = "❌ Нет"
)

// Callback actions of inline buttons.
const (
	CallbackCampaign       = "campaign"
	CallbackPresetApply    = "preset_apply"
	CallbackPresetDelete   = "preset_delete"
	CallbackPresetSave     = "preset_save"
	CallbackMetricsRefresh = "metrics_refresh"
	CallbackCampaigns      = "campaigns_refresh"

	// CampaignNone clears the campaign selection.
	CampaignNone = "none"
)

func MainMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	menu.Reply(
		menu.Row(menu.Text(BtnFilters), menu.Text(BtnPresets)),
		menu.Row(menu.Text(BtnMetrics), menu.Text(BtnHelp)),
	)

	return menu
}

func FiltersMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	menu.Reply(
		menu.Row(menu.Text(BtnMarketplace), menu.Text(BtnWarehouse)),
		menu.Row(menu.Text(BtnCategory), menu.Text(BtnPeriod)),
		menu.Row(menu.Text(BtnCampaign), menu.Text(BtnMetricsDates)),
		menu.Row(menu.Text(BtnShowFilters), menu.Text(BtnReset)),
		menu.Row(menu.Text(BtnBack)),
	)

	return menu
}

// OptionsKeyboard lists picker options one per row, followed by cancel.
func OptionsKeyboard(options []string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	var rows []tele.Row
	for _, option := range options {
		rows = append(rows, menu.Row(menu.Text(option)))
	}
	rows = append(rows, menu.Row(menu.Text(BtnCancel)))

	menu.Reply(rows...)

	return menu
}

func CancelKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(BtnCancel)))
	return menu
}

func ConfirmKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(BtnYes), menu.Text(BtnNo)))
	return menu
}

func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// CallbackData builds the payload of an inline button.
func CallbackData(action string, args ...string) string {
	data := action
	for _, arg := range args {
		data += ":" + arg
	}
	return data
}

func InlineCampaignsKeyboard(campaigns []marketai.Campaign, selected *int64) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, campaign := range campaigns {
		label := fmt.Sprintf("%s • %s", campaign.Name, campaign.Marketplace)
		if selected != nil && *selected == campaign.ID {
			label = "✅ " + label
		}
		rows = append(rows, menu.Row(
			menu.Data(label, CallbackData(CallbackCampaign, strconv.FormatInt(campaign.ID, 10))),
		))
	}
	rows = append(rows, menu.Row(
		menu.Data("🚫 Без кампании", CallbackData(CallbackCampaign, CampaignNone)),
		menu.Data("🔄 Обновить список", CallbackCampaigns),
	))

	menu.Inline(rows...)

	return menu
}

// InlinePresetsKeyboard shows built-in presets first, then user presets with
// a delete button each, then the save action.
func InlinePresetsKeyboard(defaults, custom []models.PresetConfig) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, p := range defaults {
		rows = append(rows, menu.Row(
			menu.Data("▶️ "+p.Name, CallbackData(CallbackPresetApply, p.ID)),
		))
	}
	for _, p := range custom {
		rows = append(rows, menu.Row(
			menu.Data("▶️ "+p.Name, CallbackData(CallbackPresetApply, p.ID)),
			menu.Data("🗑", CallbackData(CallbackPresetDelete, p.ID)),
		))
	}
	rows = append(rows, menu.Row(
		menu.Data("💾 Сохранить текущие фильтры", CallbackData(CallbackPresetSave)),
	))

	menu.Inline(rows...)

	return menu
}

func InlineMetricsKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(menu.Data("🔄 Обновить", CallbackData(CallbackMetricsRefresh))))
	return menu
}
