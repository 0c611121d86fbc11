package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketai-bot/internal/bot/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// defaultPresetName asks the registry to pick "Пресет N".
const defaultPresetName = "-"

// /presets command
func HandlePresets(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if err := clearUserState(ctx, c.Sender().ID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		defaults, custom := ctx.userSession(c).Presets.ListByOrigin()

		return c.Send(
			utils.FormatPresets(defaults, custom),
			utils.InlinePresetsKeyboard(defaults, custom),
			tele.ModeMarkdownV2,
		)
	}
}

func handlePresetApply(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Неверный формат"})
	}

	sess := ctx.userSession(c)

	preset, ok := sess.Presets.Find(parts[1])
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "🤷 Пресет не найден"})
	}

	sess.Store.ApplyPreset(preset)

	ctx.Logger.Info("preset applied",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("preset_id", preset.ID),
	)

	sel := sess.Store.Snapshot()
	if err := c.Send(
		utils.FormatSelection(sel, campaignName(ctx, c.Sender().ID, sel.CampaignID)),
		utils.FiltersMenuKeyboard(),
		tele.ModeMarkdownV2,
	); err != nil {
		ctx.Logger.Warn("failed to send filters", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "Пресет применён"})
}

func handlePresetDelete(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Неверный формат"})
	}

	sess := ctx.userSession(c)

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sess.Presets.Remove(dbCtx, parts[1]); err != nil {
		ctx.Logger.Error("failed to delete preset", zap.String("preset_id", parts[1]), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 Не удалось удалить пресет"})
	}

	defaults, custom := sess.Presets.ListByOrigin()
	if err := c.Edit(
		utils.FormatPresets(defaults, custom),
		utils.InlinePresetsKeyboard(defaults, custom),
		tele.ModeMarkdownV2,
	); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "Пресет удалён"})
}

func handlePresetSave(ctx *Context, c tele.Context) error {
	if err := setUserState(ctx, c.Sender().ID, StateAwaitingPresetName); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}

	if err := c.Send(
		"💾 Введите название пресета.\nОтправьте «-», чтобы использовать название по умолчанию.",
		utils.CancelKeyboard(),
	); err != nil {
		return err
	}

	return c.Respond()
}

func handlePresetNameInput(ctx *Context, c tele.Context) error {
	name := strings.TrimSpace(c.Text())
	if name == defaultPresetName {
		name = ""
	}

	sess := ctx.userSession(c)

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	preset, err := sess.Presets.SaveCurrent(dbCtx, sess.Store.Snapshot(), name)
	if err != nil {
		ctx.Logger.Error("failed to save preset", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
		return c.Send("😔 Не удалось сохранить пресет. Попробуйте позже.", utils.MainMenuKeyboard())
	}

	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	return c.Send(
		fmt.Sprintf("✅ Пресет сохранён: *%s*\nМоих пресетов: %d",
			utils.EscapeMarkdown(preset.Name), len(sess.Presets.Custom())),
		utils.MainMenuKeyboard(),
		tele.ModeMarkdownV2,
	)
}
