package handlers

import (
	"context"
	"errors"
	"strings"

	"marketai-bot/internal/bot/utils"
	"marketai-bot/internal/models"
	"marketai-bot/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// User states for conversation flow
const (
	StateIdle                = ""
	StateAwaitingMarketplace = "awaiting_marketplace"
	StateAwaitingWarehouse   = "awaiting_warehouse"
	StateAwaitingCategory    = "awaiting_category"
	StateAwaitingPeriod      = "awaiting_period"
	StateAwaitingMetricDates = "awaiting_metrics_dates"
	StateAwaitingPresetName  = "awaiting_preset_name"
	StateConfirmReset        = "confirm_reset_filters"
)

// clearDatesInput resets the metrics dates when sent instead of a range.
const clearDatesInput = "-"

// /filters command
func HandleFilters(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		if err := clearUserState(ctx, userID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		sel := ctx.userSession(c).Store.Snapshot()

		message := utils.FormatSelection(sel, campaignName(ctx, userID, sel.CampaignID)) +
			"\nВыберите параметр для настройки:"

		return c.Send(
			message,
			utils.FiltersMenuKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

// HandleText processes all text messages
func HandleText(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		text := strings.TrimSpace(c.Text())
		userID := c.Sender().ID

		state, err := getUserState(ctx, userID)
		if err != nil {
			if !errors.Is(err, redis.ErrNotFound) {
				ctx.Logger.Warn("failed to get user state", zap.Error(err))
			}
			state = StateIdle
		}

		if text == utils.BtnCancel {
			return cancelConversation(ctx, c)
		}

		if state != StateIdle {
			return handleStateInput(ctx, c, state)
		}

		switch text {
		// Main menu
		case utils.BtnFilters:
			return HandleFilters(ctx)(c)
		case utils.BtnPresets:
			return HandlePresets(ctx)(c)
		case utils.BtnMetrics:
			return HandleMetrics(ctx)(c)
		case utils.BtnHelp:
			return HandleHelp(ctx)(c)

		// Filters menu
		case utils.BtnMarketplace:
			return startPicker(ctx, c, StateAwaitingMarketplace, "🛒 Выберите маркетплейс:", models.MarketplaceOptions())
		case utils.BtnWarehouse:
			return startPicker(ctx, c, StateAwaitingWarehouse, "🏬 Выберите склад:", models.WarehouseOptions())
		case utils.BtnCategory:
			return startPicker(ctx, c, StateAwaitingCategory, "🏷 Выберите категорию:", models.CategoryOptions())
		case utils.BtnPeriod:
			return startPeriodInput(ctx, c)
		case utils.BtnCampaign:
			return showCampaigns(ctx, c)
		case utils.BtnMetricsDates:
			return startMetricsDatesInput(ctx, c)
		case utils.BtnShowFilters:
			return showFilters(ctx, c)
		case utils.BtnReset:
			return resetFilters(ctx, c)
		case utils.BtnBack:
			return c.Send("Главное меню", utils.MainMenuKeyboard())

		default:
			return c.Reply("Используйте кнопки меню или команды")
		}
	}
}

// ==================== Pickers ====================

func startPicker(ctx *Context, c tele.Context, state, prompt string, options []string) error {
	if err := setUserState(ctx, c.Sender().ID, state); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}

	return c.Send(prompt, utils.OptionsKeyboard(options))
}

func handlePickerInput(ctx *Context, c tele.Context, field models.Field, options []string) error {
	text := strings.TrimSpace(c.Text())

	if !models.IsOption(options, text) {
		return c.Send("Выберите один из вариантов кнопками ниже", utils.OptionsKeyboard(options))
	}

	sess := ctx.userSession(c)
	sess.Store.SetField(field, models.ParseOption(text))

	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	ctx.Logger.Info("filter updated",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("field", string(field)),
		zap.String("value", text),
	)

	return c.Send(
		"✅ Установлено: *"+utils.EscapeMarkdown(text)+"*",
		utils.FiltersMenuKeyboard(),
		tele.ModeMarkdownV2,
	)
}

// ==================== Dashboard period ====================

func startPeriodInput(ctx *Context, c tele.Context) error {
	if err := setUserState(ctx, c.Sender().ID, StateAwaitingPeriod); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}

	return c.Send(
		"📅 Введите период в формате 01.01.2025 - 31.01.2025 или 2025-01-01 2025-01-31:",
		utils.CancelKeyboard(),
	)
}

func handlePeriodInput(ctx *Context, c tele.Context) error {
	from, to, err := models.ParseDateRange(c.Text())
	if err != nil {
		return c.Send("❌ Не удалось распознать даты. Пример: 01.01.2025 - 31.01.2025", utils.CancelKeyboard())
	}

	sess := ctx.userSession(c)
	sess.Store.SetDateRange(from, to)
	sel := sess.Store.Snapshot()

	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	return c.Send(
		"✅ Период установлен: *"+utils.EscapeMarkdown(utils.FormatDate(sel.StartDate)+" - "+utils.FormatDate(sel.EndDate))+"*",
		utils.FiltersMenuKeyboard(),
		tele.ModeMarkdownV2,
	)
}

// ==================== Campaign metrics dates ====================

func startMetricsDatesInput(ctx *Context, c tele.Context) error {
	if err := setUserState(ctx, c.Sender().ID, StateAwaitingMetricDates); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}

	return c.Send(
		"🗓 Введите даты метрик в формате 01.01.2025 - 31.01.2025.\nОтправьте «-», чтобы сбросить даты.",
		utils.CancelKeyboard(),
	)
}

func handleMetricsDatesInput(ctx *Context, c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	sess := ctx.userSession(c)

	if text == clearDatesInput {
		sess.Store.SetMetricsRange(nil, nil)
	} else {
		from, to, err := models.ParseDateRange(text)
		if err != nil {
			return c.Send("❌ Не удалось распознать даты. Пример: 01.01.2025 - 31.01.2025", utils.CancelKeyboard())
		}
		sess.Store.SetMetricsRange(&from, &to)
	}

	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	sel := sess.Store.Snapshot()
	return c.Send(
		utils.FormatSelection(sel, campaignName(ctx, c.Sender().ID, sel.CampaignID)),
		utils.FiltersMenuKeyboard(),
		tele.ModeMarkdownV2,
	)
}

// ==================== Campaigns ====================

func showCampaigns(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID

	campaigns, err := loadCampaigns(ctx, userID)
	if err != nil {
		ctx.Logger.Error("failed to load campaigns", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(campaignsErrorText(err))
	}

	if len(campaigns) == 0 {
		return c.Send("ℹ️ У вас пока нет рекламных кампаний", utils.FiltersMenuKeyboard())
	}

	selected := ctx.userSession(c).Store.Snapshot().CampaignID

	return c.Send("📣 Выберите кампанию:", utils.InlineCampaignsKeyboard(campaigns, selected))
}

// ==================== Show & Reset ====================

func showFilters(ctx *Context, c tele.Context) error {
	sel := ctx.userSession(c).Store.Snapshot()

	return c.Send(
		utils.FormatSelection(sel, campaignName(ctx, c.Sender().ID, sel.CampaignID)),
		utils.FiltersMenuKeyboard(),
		tele.ModeMarkdownV2,
	)
}

func resetFilters(ctx *Context, c tele.Context) error {
	if err := setUserState(ctx, c.Sender().ID, StateConfirmReset); err != nil {
		ctx.Logger.Warn("failed to set confirm reset state", zap.Error(err))
	}

	return c.Send(
		"♻️ Сбросить все фильтры к значениям по умолчанию?",
		utils.ConfirmKeyboard(),
	)
}

func handleResetConfirm(ctx *Context, c tele.Context) error {
	switch strings.TrimSpace(c.Text()) {
	case utils.BtnYes, "Да":
		ctx.userSession(c).Store.Reset()

		if err := clearUserState(ctx, c.Sender().ID); err != nil {
			ctx.Logger.Warn("failed to clear state", zap.Error(err))
		}

		ctx.Logger.Info("filters reset", zap.Int64("user_id", c.Sender().ID))

		return c.Send("✅ Фильтры сброшены", utils.FiltersMenuKeyboard())
	case utils.BtnNo, "Нет":
		return cancelConversation(ctx, c)
	default:
		return c.Send(
			"Пожалуйста, выберите один из вариантов на клавиатуре",
			utils.ConfirmKeyboard(),
		)
	}
}

// ==================== State Management ====================

func handleStateInput(ctx *Context, c tele.Context, state string) error {
	switch state {
	case StateAwaitingMarketplace:
		return handlePickerInput(ctx, c, models.FieldMarketplace, models.MarketplaceOptions())
	case StateAwaitingWarehouse:
		return handlePickerInput(ctx, c, models.FieldWarehouse, models.WarehouseOptions())
	case StateAwaitingCategory:
		return handlePickerInput(ctx, c, models.FieldCategory, models.CategoryOptions())
	case StateAwaitingPeriod:
		return handlePeriodInput(ctx, c)
	case StateAwaitingMetricDates:
		return handleMetricsDatesInput(ctx, c)
	case StateAwaitingPresetName:
		return handlePresetNameInput(ctx, c)
	case StateConfirmReset:
		return handleResetConfirm(ctx, c)
	default:
		ctx.Logger.Warn("unknown user state", zap.String("state", state))
		if err := clearUserState(ctx, c.Sender().ID); err != nil {
			ctx.Logger.Warn("failed to clear state", zap.Error(err))
		}
		return c.Reply("Используйте кнопки меню или команды")
	}
}

func setUserState(ctx *Context, userID int64, state string) error {
	return ctx.Cache.SetUserState(context.Background(), userID, state)
}

func getUserState(ctx *Context, userID int64) (string, error) {
	return ctx.Cache.GetUserState(context.Background(), userID)
}

func clearUserState(ctx *Context, userID int64) error {
	return ctx.Cache.DeleteUserState(context.Background(), userID)
}

func cancelConversation(ctx *Context, c tele.Context) error {
	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	return c.Send(
		"❌ Операция отменена",
		utils.FiltersMenuKeyboard(),
	)
}
