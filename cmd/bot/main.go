package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot"
	"github.com/Proton-105/p2p-exchange-bot/internal/database"
	apperrors "github.com/Proton-105/p2p-exchange-bot/internal/errors"
	"github.com/Proton-105/p2p-exchange-bot/internal/health"
	"github.com/Proton-105/p2p-exchange-bot/internal/i18n"
	"github.com/Proton-105/p2p-exchange-bot/internal/lifecycle"
	"github.com/Proton-105/p2p-exchange-bot/internal/messenger"
	"github.com/Proton-105/p2p-exchange-bot/internal/repository"
	"github.com/Proton-105/p2p-exchange-bot/internal/server"
	"github.com/Proton-105/p2p-exchange-bot/internal/user"
	"github.com/Proton-105/p2p-exchange-bot/internal/usercache"
	"github.com/Proton-105/p2p-exchange-bot/internal/webhook"
	"github.com/Proton-105/p2p-exchange-bot/pkg/config"
	"github.com/Proton-105/p2p-exchange-bot/pkg/graceful"
	"github.com/Proton-105/p2p-exchange-bot/pkg/logger"
	"github.com/Proton-105/p2p-exchange-bot/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "p2p-exchange-bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.InitSentry(*cfg); err != nil {
		return err
	}

	appLog := logger.New(*cfg)
	log := appLog.Logger
	slog.SetDefault(log)

	log.Info("starting p2p exchange bot",
		slog.String("env", cfg.AppEnv),
		slog.String("port", cfg.Server.Port),
		slog.String("webhook_path", cfg.Server.WebhookPath),
		slog.Bool("redis", cfg.Redis.Enabled),
	)

	config.Watch(v, func(next *config.Config) {
		appLog.SetLevel(next.Logger.Level)
		log.Info("configuration reloaded", slog.String("log_level", next.Logger.Level))
	}, func(err error) {
		log.Warn("configuration reload rejected", slog.Any("error", err))
	})

	shutdown := lifecycle.NewShutdown(log)
	checker := health.NewChecker(log)

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	shutdown.RegisterCloser("postgres", db.Close)
	checker.AddCheck("postgres", health.NewDBChecker(db.DB))

	if cfg.Database.AutoMigrate {
		if err := database.NewMigrator(db.DB, log).Apply(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("database migrations applied")
	}

	var store usercache.Store
	if cfg.Redis.Enabled {
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			_ = db.Close()
			return err
		}
		store = redis.NewMetricsClient(client)
		shutdown.RegisterCloser("redis", client.Close)
		checker.AddCheck("redis", health.NewRedisChecker(client))
	}

	tg, err := messenger.NewTelegram(cfg.Telegram, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(tg))

	if cfg.Telegram.WebhookURL != "" {
		if err := tg.RegisterWebhook(cfg.Telegram.WebhookURL); err != nil {
			log.Error("webhook registration failed", slog.Any("error", err))
		}
	}

	catalog, err := i18n.Load(i18n.DefaultLang)
	if err != nil {
		_ = db.Close()
		return err
	}

	b := bot.New(bot.Dependencies{
		Messenger:  tg,
		Translator: catalog.Translator(i18n.DefaultLang),
		Users:      user.NewService(repository.NewUserRepository(db, log), usercache.NewCache(store, cfg.Redis.UserTTL), log),
		Ads:        repository.NewAdvertisementRepository(db, log),
		Deals:      repository.NewDealRepository(db, log),
		Log:        log,
	})

	hook := webhook.NewHandler(b, apperrors.NewHandler(log), log)
	router := server.NewRouter(cfg.Server, hook, lifecycle.NewProbes(checker, log), log)

	srv := graceful.NewServer(log, cfg.Server, router)
	serveErr := srv.ListenAndServe(ctx)
	if serveErr != nil {
		log.Error("http server stopped with error", slog.Any("error", serveErr))
	}

	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", logger.FlushSentry)
	}
	shutdown.RegisterCloser("log-file", appLog.Close)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown completed with errors", slog.Any("error", err))
	}

	log.Info("p2p exchange bot stopped")
	return serveErr
}
