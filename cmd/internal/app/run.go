package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Run is the CLI entrypoint used by cmd/curio.
// It returns an error instead of calling os.Exit to keep defers effective.
func Run() error {
	cfg := LoadConfig()
	log := NewLogger(cfg.LogLevel)

	a, err := New(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	StartMetrics(ctx, cfg.MetricsAddr, log)

	return newRootCommand(a).ExecuteContext(ctx)
}

func newRootCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "curio",
		Short:         "Terminal client for the Curio collectibles marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newLoginCommand(a),
		newRegisterCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newGroupsCommand(a),
		newAuctionsCommand(a),
		newCardsCommand(a),
		newOrdersCommand(a),
		newWatchCommand(a),
		newChatCommand(a),
	)
	return cmd
}
