package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/battlefield-terrain/internal/config"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain/catalog"
	"github.com/KirkDiggler/battlefield-terrain/internal/events"
	battlefieldHandler "github.com/KirkDiggler/battlefield-terrain/internal/handlers/discord/battlefield"
	"github.com/KirkDiggler/battlefield-terrain/internal/logging"
	"github.com/KirkDiggler/battlefield-terrain/internal/repositories/battlefields"
	"github.com/KirkDiggler/battlefield-terrain/internal/services/battlefield"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.Info("no .env file found")
	} else {
		logger.Info("loaded .env file")
	}
	logger.Info("starting bot",
		"app_id", cfg.Discord.AppID,
		"guild_id", cfg.Discord.GuildID,
		"storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	terrainCatalog, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load terrain catalog: %w", err)
	}

	store, err := battlefields.Open(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("failed to close storage", "error", closeErr)
		}
	}()
	logger.Info("using storage", "driver", store.Driver)

	bus := events.NewBus()
	bus.Subscribe(events.NewAuditListener(logger), events.AllEventTypes()...)

	service := battlefield.NewService(&battlefield.ServiceConfig{
		Repository: store,
		Catalog:    terrainCatalog,
		MaxRerolls: cfg.Engine.MaxRerolls,
		Logger:     logger,
		Events:     bus,
	})

	handler := battlefieldHandler.NewHandler(&battlefieldHandler.HandlerConfig{
		Service: service,
		Logger:  logger,
	})

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.AddHandler(handler.HandleInteraction)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	defer func() {
		if closeErr := dg.Close(); closeErr != nil {
			logger.Error("failed to close Discord connection", "error", closeErr)
		}
	}()

	// Empty guild ID registers a global command
	if err := handler.RegisterCommands(dg, cfg.Discord.GuildID); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	logger.Info("bot is running, press CTRL-C to exit")
	<-ctx.Done()
	logger.Info("shutting down")

	return nil
}
