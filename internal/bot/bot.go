package bot

import (
	"context"
	"fmt"
	"time"

	"marketai-bot/internal/api/marketai"
	"marketai-bot/internal/bot/handlers"
	"marketai-bot/internal/bot/middleware"
	"marketai-bot/internal/config"
	"marketai-bot/internal/session"
	"marketai-bot/internal/storage/postgres"
	"marketai-bot/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Bot represents Telegram bot
type Bot struct {
	bot      *tele.Bot
	store    *postgres.Store
	cache    *redis.Cache
	api      *marketai.Client
	sessions *session.Manager
	config   *config.Config
	logger   *zap.Logger
}

func New(
	cfg *config.Config,
	store *postgres.Store,
	cache *redis.Cache,
	api *marketai.Client,
	logger *zap.Logger,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("telebot error", zap.Error(err))
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		store:  store,
		cache:  cache,
		api:    api,
		config: cfg,
		logger: logger,
	}

	bot.sessions = session.NewManager(session.Deps{
		FilterStorage: cache,
		PresetStorage: store,
		Fetcher:       api,
		Notifier:      bot,
		Logger:        logger,
		FetchTimeout:  cfg.MetricsFetchTimeout,
	})

	bot.setupMiddleware()

	bot.registerHandlers()

	logger.Info("bot initialized successfully")

	return bot, nil
}

func (b *Bot) setupMiddleware() {
	b.bot.Use(middleware.Recovery(b.logger))

	b.bot.Use(middleware.Logger(b.logger))

	b.bot.Use(middleware.RateLimit(b.cache, b.logger))
}

func (b *Bot) registerHandlers() {
	ctx := &handlers.Context{
		Store:    b.store,
		Cache:    b.cache,
		API:      b.api,
		Sessions: b.sessions,
		Config:   b.config,
		Logger:   b.logger,
	}

	b.bot.Handle("/start", handlers.HandleStart(ctx))
	b.bot.Handle("/help", handlers.HandleHelp(ctx))
	b.bot.Handle("/filters", handlers.HandleFilters(ctx))
	b.bot.Handle("/presets", handlers.HandlePresets(ctx))
	b.bot.Handle("/metrics", handlers.HandleMetrics(ctx))

	b.bot.Handle(tele.OnText, handlers.HandleText(ctx))

	b.bot.Handle(tele.OnCallback, handlers.HandleCallback(ctx))

	b.logger.Info("handlers registered")
}

// NotifyError sends a transient error message to the user. Failures are only
// logged.
func (b *Bot) NotifyError(userID int64, message string) {
	if _, err := b.bot.Send(&tele.User{ID: userID}, "⚠️ "+message); err != nil {
		b.logger.Warn("failed to notify user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting bot...")

	go b.bot.Start()

	<-ctx.Done()

	b.logger.Info("stopping bot...")
	b.bot.Stop()
	b.sessions.Close()

	return nil
}

func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}
