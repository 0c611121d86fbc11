package handlers

import (
	"context"
	"time"

	"marketai-bot/internal/api/marketai"
	"marketai-bot/internal/config"
	"marketai-bot/internal/session"
	"marketai-bot/internal/storage/postgres"
	"marketai-bot/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Context contains deps for all handlers
type Context struct {
	Store    *postgres.Store
	Cache    *redis.Cache
	API      *marketai.Client
	Sessions *session.Manager
	Config   *config.Config
	Logger   *zap.Logger
}

// userSession returns the filter session of the sender.
func (ctx *Context) userSession(c tele.Context) *session.Session {
	sCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return ctx.Sessions.Get(sCtx, c.Sender().ID)
}
