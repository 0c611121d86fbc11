package handlers

import (
	"strings"

	"marketai-bot/internal/bot/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// HandleCallback processes all callback queries from inline buttons
func HandleCallback(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			ctx.Logger.Warn("callback is nil")
			return nil
		}

		action, parts := parseCallback(cb.Data)

		ctx.Logger.Debug("routing callback",
			zap.String("action", action),
			zap.Strings("parts", parts),
			zap.Int64("user_id", c.Sender().ID),
		)

		switch action {
		case utils.CallbackCampaign:
			return handleCampaignSelect(ctx, c, parts)
		case utils.CallbackCampaigns:
			return handleCampaignsRefresh(ctx, c)
		case utils.CallbackPresetApply:
			return handlePresetApply(ctx, c, parts)
		case utils.CallbackPresetDelete:
			return handlePresetDelete(ctx, c, parts)
		case utils.CallbackPresetSave:
			return handlePresetSave(ctx, c)
		case utils.CallbackMetricsRefresh:
			return handleMetricsRefresh(ctx, c)
		default:
			ctx.Logger.Warn("unknown callback action",
				zap.String("action", action),
				zap.String("data", cb.Data),
			)
			return c.Respond(&tele.CallbackResponse{Text: "❓ Неизвестное действие"})
		}
	}
}

// parseCallback splits "\faction:arg|payload" into the action and all
// colon separated parts, action included.
func parseCallback(data string) (string, []string) {
	data = strings.TrimPrefix(data, "\f")
	if i := strings.IndexByte(data, '|'); i >= 0 {
		data = data[:i]
	}

	parts := strings.Split(data, ":")
	return parts[0], parts
}

// editOrSend replaces the callback message, falling back to a new one.
func editOrSend(ctx *Context, c tele.Context, text string) {
	if err := c.Edit(text); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
		if err := c.Send(text); err != nil {
			ctx.Logger.Error("failed to send message", zap.Error(err))
		}
	}
}
