package handlers

import (
	"context"
	"errors"
	"time"

	"marketai-bot/internal/bot/utils"
	"marketai-bot/internal/consumers"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /metrics command
func HandleMetrics(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		state := refreshMetrics(ctx, c)

		return c.Send(
			utils.FormatMetrics(state),
			utils.InlineMetricsKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

func handleMetricsRefresh(ctx *Context, c tele.Context) error {
	state := refreshMetrics(ctx, c)

	if err := c.Edit(
		utils.FormatMetrics(state),
		utils.InlineMetricsKeyboard(),
		tele.ModeMarkdownV2,
	); err != nil && !errors.Is(err, tele.ErrSameMessageContent) {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "🔄 Обновлено"})
}

// refreshMetrics re-fetches the campaign scope and waits for the answer. A
// still loading state is returned if the fetch outlives the wait.
func refreshMetrics(ctx *Context, c tele.Context) consumers.MetricsState {
	sess := ctx.userSession(c)
	sess.Metrics.Refresh()

	waitCtx, cancel := context.WithTimeout(context.Background(), ctx.Config.MetricsFetchTimeout+time.Second)
	defer cancel()

	state, err := sess.Metrics.Wait(waitCtx)
	if err != nil {
		ctx.Logger.Warn("metrics are still loading",
			zap.Int64("user_id", c.Sender().ID),
			zap.Error(err),
		)
	}

	return state
}
