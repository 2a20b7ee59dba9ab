package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/predictarena/predictarena/internal/bootstrap"
	"github.com/predictarena/predictarena/internal/config"
	"github.com/predictarena/predictarena/internal/database"
	"github.com/predictarena/predictarena/internal/game"
	"github.com/predictarena/predictarena/internal/server"
	"github.com/predictarena/predictarena/internal/worker"
)

func main() {
	// Load configuration (reads .env when present)
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	// Validate environment before anything touches external systems
	if err := config.ValidateEnv(); err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}

	// Setup logging (stdout + rotating session file)
	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	// Run database migrations
	if err := database.RunMigrations(cfg.GetDBConnString()); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	// Create connection pool
	dbPool, err := database.NewPool(context.Background(), cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Event system: in-memory bus behind a resilient publisher
	eventBus, resilientPublisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Event system initialization failed", "error", err)
		os.Exit(1)
	}

	// Repositories (postgres + LRU read cache)
	repos, err := bootstrap.InitializeRepositories(dbPool, cfg.CacheSize)
	if err != nil {
		slog.Error("Repository initialization failed", "error", err)
		os.Exit(1)
	}

	// Game service. No ledger backend is wired yet; stake and reward amounts
	// are computed and published but balances live in the consuming system.
	gameService := game.NewService(repos.Game, resilientPublisher, nil)

	// Settlement worker: closes expired windows, tracks settlement backlog
	settlementWorker := worker.NewSettlementWorker(gameService, repos.Game, cfg.SettlementInterval, cfg.SettlementBatchSize)
	settlementWorker.Subscribe(eventBus)
	settlementWorker.Start()

	// HTTP server
	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, dbPool, gameService)

	// Run server in background so we can wait on signals
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// Wait for shutdown signal or server failure
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	select {
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		GameService:        gameService,
		SettlementWorker:   settlementWorker,
		ResilientPublisher: resilientPublisher,
	})
}
