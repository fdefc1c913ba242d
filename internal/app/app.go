package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ziyyanmart/localstore/internal/backup"
	"github.com/ziyyanmart/localstore/internal/command"
	"github.com/ziyyanmart/localstore/internal/config"
	"github.com/ziyyanmart/localstore/internal/dialog"
	"github.com/ziyyanmart/localstore/internal/events"
	"github.com/ziyyanmart/localstore/internal/logger"
	"github.com/ziyyanmart/localstore/internal/metrics"
	"github.com/ziyyanmart/localstore/internal/paths"
	"github.com/ziyyanmart/localstore/internal/platform"
	"github.com/ziyyanmart/localstore/internal/repository"
)

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config   *config.Config
	Env      platform.Environment
	Repo     repository.Repository
	Broker   *dialog.Broker
	Hub      *events.Hub
	Metrics  *metrics.Metrics
	Commands *command.Commands

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

// New wires the store, the dialog broker and the event hub from cfg.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	hub := events.NewHub(cfg.Server.AllowedOrigins())
	broker := dialog.NewBroker(hub)

	env, err := platform.NewEnvironmentFromConfig(cfg, broker)
	if err != nil {
		return nil, fmt.Errorf("init environment: %w", err)
	}

	resolver, err := paths.NewResolver(env)
	if err != nil {
		return nil, err
	}

	repo, err := repository.NewJSONRepository(resolver, repository.WithWatchDebounce(cfg.Data.WatchDebounce))
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}

	exporter, err := backup.NewExporter(env,
		backup.WithProduct(cfg.Backup.Product),
		backup.WithDialogTitle(cfg.Backup.DialogTitle),
		backup.WithCancelMessage(cfg.Backup.CancelMessage),
	)
	if err != nil {
		return nil, fmt.Errorf("init backup exporter: %w", err)
	}

	m := metrics.New()
	if err := m.RegisterPendingDialogs(broker.PendingCount); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	cmds, err := command.New(repo, exporter, m, hub)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:   cfg,
		Env:      env,
		Repo:     repo,
		Broker:   broker,
		Hub:      hub,
		Metrics:  m,
		Commands: cmds,
		BaseCtx:  ctx,
		Cancel:   cancel,
	}, nil
}

// StartWatchers publishes document.changed when a slot file is edited outside the app.
func (a *App) StartWatchers() error {
	if !a.Config.Data.WatchEnabled {
		logger.WithComponent("app").Info("data directory watcher disabled")
		return nil
	}

	return a.Repo.StartWatcher(a.BaseCtx, func(slot repository.Slot) {
		a.Hub.Publish(events.DocumentChanged, map[string]string{"slot": slot.String()})
	})
}

// Shutdown cancels every pending dialog, disconnects UI clients and stops the watcher.
func (a *App) Shutdown() {
	if a == nil {
		return
	}
	if a.Broker != nil {
		a.Broker.Close()
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.Cancel != nil {
		a.Cancel()
	}
}
