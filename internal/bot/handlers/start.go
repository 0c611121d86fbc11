package handlers

import (
	"context"
	"time"

	"marketai-bot/internal/bot/utils"
	"marketai-bot/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /start command
func HandleStart(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		userName := c.Sender().Username
		firstName := c.Sender().FirstName
		lastName := c.Sender().LastName

		ctx.Logger.Info("user started bot",
			zap.Int64("user_id", userID),
			zap.String("username", userName),
		)

		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := ctx.Store.GetUser(dbCtx, userID)
		if err != nil {
			ctx.Logger.Error("get user failed", zap.Int64("user_id", userID), zap.Error(err))
			return c.Send("😔 Ошибка. Попробуйте позже.")
		}

		if user == nil {
			user = &models.User{
				ID:        userID,
				Username:  stringPtr(userName),
				FirstName: stringPtr(firstName),
				LastName:  stringPtr(lastName),
			}
			if err := ctx.Store.CreateUser(dbCtx, user); err != nil {
				ctx.Logger.Error("failed to create user", zap.Int64("user_id", userID), zap.Error(err))
				return c.Send("😔 Ошибка при регистрации. Попробуйте позже.")
			}
			ctx.Logger.Info("new user created", zap.Int64("user_id", userID))
		} else {
			needUpdate := false
			if !samePtr(user.Username, userName) {
				user.Username = stringPtr(userName)
				needUpdate = true
			}
			if !samePtr(user.FirstName, firstName) {
				user.FirstName = stringPtr(firstName)
				needUpdate = true
			}
			if !samePtr(user.LastName, lastName) {
				user.LastName = stringPtr(lastName)
				needUpdate = true
			}
			if needUpdate {
				if err := ctx.Store.UpdateUser(dbCtx, user); err != nil {
					ctx.Logger.Warn("failed to update user meta", zap.Int64("user_id", userID), zap.Error(err))
				}
			}
			if err := ctx.Store.TouchUser(dbCtx, userID); err != nil {
				ctx.Logger.Warn("failed to touch user", zap.Int64("user_id", userID), zap.Error(err))
			}
			ctx.Logger.Debug("existing user", zap.Int64("user_id", userID))
		}

		// warm up the session so persisted filters are restored right away
		ctx.userSession(c)

		if err := clearUserState(ctx, userID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		return c.Send(
			utils.FormatWelcomeMessage(firstName),
			utils.MainMenuKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func samePtr(p *string, s string) bool {
	if p == nil {
		return s == ""
	}
	return *p == s
}
