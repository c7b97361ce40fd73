package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/battlefield-terrain/internal/config"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain/catalog"
	"github.com/KirkDiggler/battlefield-terrain/internal/events"
	"github.com/KirkDiggler/battlefield-terrain/internal/logging"
	"github.com/KirkDiggler/battlefield-terrain/internal/repositories/battlefields"
	"github.com/KirkDiggler/battlefield-terrain/internal/services/battlefield"
)

// app carries what every subcommand needs once the root has set it up
type app struct {
	logger  *slog.Logger
	store   *battlefields.Store
	service battlefield.Service
	width   int
	logOut  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{logOut: os.Stderr}

	cmd := &cobra.Command{
		Use:           "terrain",
		Short:         "Battlefield terrain generator",
		Long:          "terrain rolls up battlefield terrain on the random terrain tables and keeps every roll.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	cmd.PersistentFlags().IntVar(&a.width, "width", 100, "Wrap descriptions at this many columns (0 disables wrapping)")

	cmd.AddCommand(
		newGenerateCmd(a),
		newShowCmd(a),
		newResolveCmd(a),
		newLogCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.logger = logging.NewWithWriter(a.logOut, cfg.Log.Level, cfg.Log.Format)

	terrainCatalog, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load terrain catalog: %w", err)
	}

	a.store, err = battlefields.Open(cmd.Context(), &cfg.Storage)
	if err != nil {
		return err
	}
	a.logger.Debug("opened storage", "driver", a.store.Driver)

	bus := events.NewBus()
	bus.Subscribe(events.NewAuditListener(a.logger), events.AllEventTypes()...)

	a.service = battlefield.NewService(&battlefield.ServiceConfig{
		Repository: a.store,
		Catalog:    terrainCatalog,
		MaxRerolls: cfg.Engine.MaxRerolls,
		Logger:     a.logger,
		Events:     bus,
	})
	return nil
}

func (a *app) teardown() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
