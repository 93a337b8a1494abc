package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/forgebound/forgebot/forgebot"
	"github.com/forgebound/forgebot/forgebot/commands"
	"github.com/forgebound/forgebot/forgebot/database"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
	"github.com/forgebound/forgebot/forgebot/economy/boosts"
	"github.com/forgebound/forgebot/forgebot/economy/crafting"
	"github.com/forgebound/forgebot/forgebot/handlers"
	"github.com/forgebound/forgebot/forgebot/logger"
	"github.com/forgebound/forgebot/forgebot/migration"
	"github.com/forgebound/forgebot/forgebot/services"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Forgebound Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	shouldMigrate := flag.Bool("migrate", false, "Import users, inventories and boosts from the legacy Mongo bot, then exit")
	archiveSince := flag.String("archive-since", "", "Export craft history created since this RFC3339 time, then exit")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := forgebot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	slog.Info("Initializing database schema...")
	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	defer db.Close()

	if *shouldMigrate {
		if err := runMigration(ctx, db, cfg); err != nil {
			slog.Error("Migration failed", slog.Any("error", err))
			os.Exit(-1)
		}
		return
	}

	b := forgebot.New(*cfg, version, commit)
	b.DB = db

	// Repositories
	b.UserRepository = repositories.NewUserRepository(db.BunDB())
	b.InventoryRepository = repositories.NewInventoryRepository(db.BunDB())
	b.QueueRepository = repositories.NewQueueRepository(db.BunDB())
	b.BoostRepository = repositories.NewBoostRepository(db.BunDB())
	b.HistoryRepository = repositories.NewHistoryRepository(db.BunDB())

	// Engine
	b.BoostManager = boosts.NewManager(b.BoostRepository)
	snapshotCache := crafting.NewSnapshotCache(b.UserRepository, b.InventoryRepository, b.QueueRepository)
	b.CraftProcessor = crafting.NewProcessor(
		b.UserRepository,
		b.InventoryRepository,
		b.QueueRepository,
		b.HistoryRepository,
		b.BoostManager,
		snapshotCache,
	)

	if cfg.Archive.Bucket != "" {
		b.HistoryArchive = services.NewHistoryArchive(
			cfg.Archive.Key,
			cfg.Archive.Secret,
			cfg.Archive.Region,
			cfg.Archive.Bucket,
			cfg.Archive.Prefix,
			b.HistoryRepository,
		)
	}

	if *archiveSince != "" {
		if b.HistoryArchive == nil {
			slog.Error("No archive bucket configured")
			os.Exit(-1)
		}
		since, err := time.Parse(time.RFC3339, *archiveSince)
		if err != nil {
			slog.Error("Invalid -archive-since value", slog.Any("error", err))
			os.Exit(-1)
		}
		count, err := b.HistoryArchive.Export(ctx, since)
		if err != nil {
			slog.Error("History export failed", slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("History export done", slog.Int("records", count))
		return
	}

	h := handler.New()

	craftHandler := commands.NewCraftHandler(b)
	h.Command("/craft", handlers.WrapWithLogging("craft", craftHandler.HandleCraft))
	h.Component("/craft/", handlers.WrapComponentWithLogging("craft", craftHandler.HandleComponent))

	commands.NewQueueHandler(b).Register(h)
	commands.NewBoostHandler(b).Register(h)

	h.Command("/claim", handlers.WrapWithLogging("claim", commands.ClaimHandler(b)))
	h.Command("/balance", handlers.WrapWithLogging("balance", commands.BalanceHandler(b)))
	h.Command("/daily", handlers.WrapWithLogging("daily", commands.DailyHandler(b)))
	h.Command("/recipes", handlers.WrapWithLogging("recipes", commands.RecipesHandler(b)))
	h.Command("/inventory", handlers.WrapWithLogging("inventory", commands.InventoryHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("error_details", fmt.Sprintf("%+v", err)),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
}

func runMigration(ctx context.Context, db *database.DB, cfg *forgebot.Config) error {
	if cfg.Migration.MongoURI == "" {
		return fmt.Errorf("migration.mongo_uri is not configured")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Migration.MongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	m := migration.NewMigrator(db.BunDB())
	m.UseMongo(client, cfg.Migration.MongoDB)
	if cfg.Migration.UseCopy {
		m.SetUseCopy(true)
		m.UsePool(db.GetPool())
	}
	return m.MigrateAll(ctx)
}
