package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"marketai-bot/internal/api/marketai"
	"marketai-bot/internal/bot/utils"
	"marketai-bot/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// loadCampaigns returns the campaigns of the user, served from cache when
// possible.
func loadCampaigns(ctx *Context, userID int64) ([]marketai.Campaign, error) {
	reqCtx, cancel := context.WithTimeout(context.Background(), ctx.Config.MarketAITimeout)
	defer cancel()

	cached, ok, err := ctx.Cache.GetCampaigns(reqCtx, userID)
	if err != nil {
		ctx.Logger.Warn("failed to read cached campaigns", zap.Int64("user_id", userID), zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	campaigns, err := ctx.API.GetCampaigns(reqCtx)
	if err != nil {
		return nil, err
	}

	if err := ctx.Cache.SetCampaigns(reqCtx, userID, campaigns); err != nil {
		ctx.Logger.Warn("failed to cache campaigns", zap.Int64("user_id", userID), zap.Error(err))
	}

	return campaigns, nil
}

// findCampaign looks a campaign up in the user's campaign list.
func findCampaign(ctx *Context, userID int64, id int64) (marketai.Campaign, bool) {
	campaigns, err := loadCampaigns(ctx, userID)
	if err != nil {
		return marketai.Campaign{}, false
	}

	for _, campaign := range campaigns {
		if campaign.ID == id {
			return campaign, true
		}
	}
	return marketai.Campaign{}, false
}

// campaignName resolves a campaign id to its name, or "" when unknown.
func campaignName(ctx *Context, userID int64, id *int64) string {
	if id == nil {
		return ""
	}

	campaign, ok := findCampaign(ctx, userID, *id)
	if !ok {
		return ""
	}
	return campaign.Name
}

// campaignsErrorText explains a failed campaign list request.
func campaignsErrorText(err error) string {
	switch {
	case marketai.IsStatus(err, http.StatusUnauthorized), marketai.IsStatus(err, http.StatusForbidden):
		return "🔑 Нет доступа к MarketAI. Проверьте токен API."
	default:
		return "😔 Не удалось загрузить список кампаний. Попробуйте позже."
	}
}

func handleCampaignSelect(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Неверный формат"})
	}

	userID := c.Sender().ID
	sess := ctx.userSession(c)

	if parts[1] == utils.CampaignNone {
		sess.Store.SetCampaignID(nil)
		ctx.Logger.Info("campaign cleared", zap.Int64("user_id", userID))
		editOrSend(ctx, c, "📣 Кампания не выбрана")
		return c.Respond(&tele.CallbackResponse{Text: "✅ Кампания сброшена"})
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		ctx.Logger.Warn("invalid campaign id", zap.String("value", parts[1]))
		return c.Respond(&tele.CallbackResponse{Text: "❌ Неверный формат"})
	}

	// a known campaign also narrows the marketplace, in one change
	name := "#" + parts[1]
	if campaign, ok := findCampaign(ctx, userID, id); ok {
		name = campaign.Name
		patch := models.SelectionPatch{CampaignID: &id}
		if mp := campaign.Marketplace.String(); models.IsOption(models.MarketplaceOptions(), mp) {
			marketplace := models.Specific(mp)
			patch.Marketplace = &marketplace
		}
		sess.Store.SetAll(patch)
	} else {
		sess.Store.SetCampaignID(&id)
	}

	ctx.Logger.Info("campaign selected",
		zap.Int64("user_id", userID),
		zap.Int64("campaign_id", id),
	)
	editOrSend(ctx, c, "📣 Кампания: "+name+"\n\nМетрики загружаются, откройте /metrics")

	return c.Respond(&tele.CallbackResponse{Text: "✅ Выбрано"})
}

// handleCampaignsRefresh drops the cached list and redraws the picker.
func handleCampaignsRefresh(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID

	reqCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	err := ctx.Cache.InvalidateCampaigns(reqCtx, userID)
	cancel()
	if err != nil {
		ctx.Logger.Warn("failed to invalidate campaigns", zap.Int64("user_id", userID), zap.Error(err))
	}

	campaigns, err := loadCampaigns(ctx, userID)
	if err != nil {
		ctx.Logger.Error("failed to load campaigns", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: campaignsErrorText(err)})
	}

	selected := ctx.userSession(c).Store.Snapshot().CampaignID
	if err := c.Edit("📣 Выберите кампанию:", utils.InlineCampaignsKeyboard(campaigns, selected)); err != nil &&
		!errors.Is(err, tele.ErrSameMessageContent) {
		ctx.Logger.Warn("failed to edit campaigns", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "🔄 Список обновлён"})
}
