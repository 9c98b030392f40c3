package bot

import (
	"context"
	"log/slog"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot/handlers"
	"github.com/Proton-105/p2p-exchange-bot/internal/bot/keyboard"
	"github.com/Proton-105/p2p-exchange-bot/internal/i18n"
	"github.com/Proton-105/p2p-exchange-bot/internal/messenger"
	"github.com/Proton-105/p2p-exchange-bot/internal/middleware"
	"github.com/Proton-105/p2p-exchange-bot/internal/repository"
)

// Dependencies are the collaborators the command set needs.
type Dependencies struct {
	Messenger  messenger.Messenger
	Translator i18n.Translator
	Users      handlers.UserResolver
	Ads        repository.AdvertisementRepository
	Deals      repository.DealRepository
	Log        *slog.Logger
}

// Bot wires the command handlers behind the router.
type Bot struct {
	router *Router
	log    *slog.Logger
}

// New builds the bot with its full dispatch table.
func New(deps Dependencies) *Bot {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	b := &Bot{
		router: NewRouter(log),
		log:    log,
	}
	b.setupRouter(deps)

	return b
}

// Handle routes one inbound message.
func (b *Bot) Handle(ctx context.Context, req *handlers.Request) error {
	return b.router.Route(ctx, req)
}

func (b *Bot) setupRouter(deps Dependencies) {
	tr := deps.Translator
	hd := handlers.Deps{Messenger: deps.Messenger, Translator: tr}

	b.router.Use(RecoveryMiddleware(b.log))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Metrics)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(hd, deps.Users, b.log))
	b.router.RegisterCommand(CommandAds, handlers.NewAdsHandler(hd, deps.Ads), tr.T(keyboard.KeyAds))
	b.router.RegisterCommand(CommandNewAd, handlers.NewCreateAdHandler(hd), tr.T(keyboard.KeyCreateAd))
	b.router.RegisterCommand(CommandProfile, handlers.NewProfileHandler(hd, deps.Users), tr.T(keyboard.KeyProfile))
	b.router.RegisterCommand(CommandDeals, handlers.NewDealsHandler(hd, deps.Deals), tr.T(keyboard.KeyDeals))
	b.router.RegisterCommand(CommandHelp, handlers.NewSupportHandler(hd), tr.T(keyboard.KeySupport))
	b.router.SetDefault(handlers.NewFallbackHandler(hd))
}
