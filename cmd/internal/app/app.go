// Package app wires the Curio client runtime: config, logging, the API
// client, the event channel and the session manager, plus the CLI
// commands built on top of them.
package app

import (
	"fmt"
	"log/slog"

	"curio/cmd/internal/api"
	"curio/cmd/internal/auth/session"
	"curio/cmd/internal/realtime"
	"curio/cmd/internal/secrets"
)

// App holds the client stack shared by every command.
type App struct {
	Config Config
	Log    *slog.Logger

	Store   secrets.Store
	Client  *api.Client
	Channel *realtime.Channel
	Session *session.Manager
}

// New builds the App from config.
func New(cfg Config, log *slog.Logger) (*App, error) {
	store, err := secrets.NewFileStore(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("secret store: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, store, log)
	channel := realtime.NewChannel(cfg.WSURL, store, log)

	return &App{
		Config:  cfg,
		Log:     log,
		Store:   store,
		Client:  client,
		Channel: channel,
		Session: session.NewManager(store, client, channel, log),
	}, nil
}

// Close releases the event channel if one is open.
func (a *App) Close() {
	a.Channel.Close()
}
