// Package app assembles BarBot from its configuration: infrastructure,
// venue search, session storage and the Telegram routes.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/barbot/core/bootstrap"
	"github.com/m3rciful/barbot/core/logger"
	coretelegram "github.com/m3rciful/barbot/core/telegram"
	"github.com/m3rciful/barbot/core/telegram/commands"
	"github.com/m3rciful/barbot/core/telegram/delegate"
	"github.com/m3rciful/barbot/core/telegram/router"
	"github.com/m3rciful/barbot/core/telegram/state"
	"github.com/m3rciful/barbot/internal/bars"
	"github.com/m3rciful/barbot/internal/journal"
	"github.com/m3rciful/barbot/internal/staticmap"
	"github.com/m3rciful/barbot/internal/venue"
)

// App is a bootstrapped BarBot ready to run.
type App struct {
	cfg      *Config
	infra    *bootstrap.Result
	handlers *bars.Handlers
}

// Bootstrap initializes logging, the optional journal database and the
// bar finder.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	infra, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:        cfg.CoreConfig(),
		Database:      cfg.Database,
		Migrations:    journal.Migrations,
		MigrationsDir: journal.MigrationsDir,
	})
	if err != nil {
		return nil, err
	}

	handlers, err := buildHandlers(cfg, infra)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	return &App{cfg: cfg, infra: infra, handlers: handlers}, nil
}

func buildHandlers(cfg *Config, infra *bootstrap.Result) (*bars.Handlers, error) {
	searcher, err := venue.NewSearcher(venue.ProviderConfig{
		Provider:     cfg.Search.Provider,
		YelpAPIKey:   cfg.Search.YelpAPIKey,
		GoogleAPIKey: cfg.Search.GoogleAPIKey,
		GoogleRadius: cfg.Search.GoogleRadiusMeters,
		HTTPClient:   coretelegram.BuildAPIClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("app: search provider: %w", err)
	}

	var j bars.Journal = journal.Nop{}
	if infra != nil && infra.DB != nil {
		j = journal.NewStore(infra.DB)
	}

	bot, err := bars.New(bars.Options{
		Searcher: searcher,
		Maps:     staticmap.NewBuilder(cfg.Maps.APIKey),
		Journal:  j,
		Category: cfg.Search.Category,
		Limit:    cfg.Search.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	logger.Search.Info("search ready",
		slog.String("event", "search.init"),
		slog.String("provider", searcher.Name()),
		slog.Int("limit", cfg.Search.Limit),
		slog.Bool("journal", infra != nil && infra.DB != nil),
	)

	sessions := state.NewMemoryStore[bars.Session](cfg.Session.IdleTimeout())
	return bars.NewHandlers(bot, sessions), nil
}

// Registry returns the commands and callbacks the bot answers.
func (a *App) Registry() *coretelegram.Registry {
	reg := coretelegram.NewRegistry()
	errs := []error{
		reg.RegisterCommand(bars.CommandStart, commands.Command{
			Handler:     a.handlers.Command,
			Description: "Show the button that shares your location",
		}),
		reg.RegisterCommand(bars.CommandHelp, commands.Command{
			Handler:     a.handlers.Command,
			Description: "How to find bars nearby",
		}),
		reg.RegisterCallbackPrefix(bars.SelectionPrefix, a.handlers.Selection),
	}
	if err := errors.Join(errs...); err != nil {
		logger.TWire.Error("registry incomplete", slog.String("err", err.Error()))
	}
	return reg
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := a.Registry()
	loops := delegate.New(delegate.Options{
		QueueSize:   a.cfg.Session.QueueSize,
		IdleTimeout: a.cfg.Session.IdleTimeout(),
		OnIdle:      a.handlers.Forget,
	})

	routes := router.CommandRoutes(reg, loops)
	routes = append(routes,
		router.TextRoute(reg, loops),
		router.CallbackRoute(reg, loops),
		router.EventRoute(tele.OnLocation, "location", a.handlers.Location, loops),
	)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Delegator:   loops,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      routes,
	}, nil
}

// Close implements cmd.TelegramApp.
func (a *App) Close() error {
	return a.infra.Close()
}
