package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wandermesh/waystation/internal/config"
	"github.com/wandermesh/waystation/internal/database"
	"github.com/wandermesh/waystation/internal/database/postgres"
	"github.com/wandermesh/waystation/internal/discovery"
	"github.com/wandermesh/waystation/internal/handoff"
	"github.com/wandermesh/waystation/internal/identity"
	"github.com/wandermesh/waystation/internal/inventory"
	"github.com/wandermesh/waystation/internal/linking"
	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/passport"
	"github.com/wandermesh/waystation/internal/relay"
	"github.com/wandermesh/waystation/internal/scheduler"
	"github.com/wandermesh/waystation/internal/server"
	"github.com/wandermesh/waystation/internal/session"
	"github.com/wandermesh/waystation/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)

	slog.Info("Starting world node",
		"world", cfg.WorldName,
		"display_name", cfg.DisplayName,
		"relay_url", cfg.RelayURL)

	// The world cannot operate without its record store: either of these
	// failing is fatal. Everything after this point is recoverable.
	pool, err := database.NewPool(cfg.GetDBConnString(), database.DefaultMaxConnections, 5*time.Minute, 30*time.Minute)
	if err != nil {
		slog.Error("Failed to open record store", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.InitSchema(context.Background(), pool); err != nil {
		slog.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	portalRepo := postgres.NewPortalRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)

	// Services
	identitySvc := identity.NewService(userRepo, inventoryRepo, identity.Settings{
		MaxInventorySlots: cfg.MaxInventorySlots,
		GuestMaxSlots:     cfg.GuestMaxSlots,
		GuestCanTrade:     cfg.GuestCanTrade,
		ReputationDefault: cfg.ReputationDefault,
	})
	ledger := inventory.NewService(inventoryRepo, userRepo, cfg.MaxStackSize)
	sessions := session.NewRegistry(sessionRepo, cfg.SessionTimeout)
	auditor := passport.NewAuditor(auditRepo, cfg.LogSuspicious)

	engine := handoff.NewEngine(handoff.Settings{
		WorldName:           cfg.WorldName,
		WorldURL:            cfg.WorldURL,
		DisplayName:         cfg.DisplayName,
		ReputationThreshold: cfg.ReputationThreshold,
		PassportLimits: passport.Limits{
			MaxAge:            cfg.PassportMaxAge,
			MaxInventorySlots: cfg.MaxInventorySlots,
			MaxStackSize:      cfg.MaxStackSize,
		},
	}, auditor, identitySvc, ledger, sessions, portalRepo)

	responder := discovery.NewResponder(cfg.WorldName, portalRepo, identitySvc, sessions)

	// Relay link
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := relay.NewDispatcher(engine, responder)
	relayClient := relay.NewClient(cfg.RelayURL, relay.WorldIdentity{
		AgentID:     fmt.Sprintf("%s-server-%d", cfg.WorldName, time.Now().Unix()),
		WorldName:   cfg.WorldName,
		WorldURL:    cfg.WorldURL,
		DisplayName: cfg.DisplayName,
	}, dispatcher)
	relayClient.Start(ctx)

	// Background maintenance
	workers := worker.NewPool(2, 16)
	workers.Start()
	sched := scheduler.New(workers)
	sched.Schedule(cfg.CleanupInterval, worker.JobFunc(sessions.Cleanup))
	sched.Schedule(24*time.Hour, worker.JobFunc(func(ctx context.Context) error {
		_, err := auditRepo.CleanupOldEvents(ctx, cfg.AuditRetentionDays)
		return err
	}))

	// Status surface
	statusServer := server.NewServer(cfg.HTTPPort, cfg.WorldName, cfg.DisplayName, pool, relayClient, sessions)
	statusServer.Start()

	// Optional Discord linking bot
	var bot *linking.Bot
	if cfg.DiscordToken != "" {
		bot, err = linking.NewBot(cfg.DiscordToken, cfg.DiscordAppID, linking.NewService(identitySvc))
		if err != nil {
			slog.Error("Failed to create linking bot", "error", err)
		} else if err := bot.Start(); err != nil {
			slog.Error("Failed to start linking bot", "error", err)
			bot = nil
		}
	}

	slog.Info("World node initialized, waiting for travelers")

	// Wait for termination
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	slog.Info("Shutting down world node")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if bot != nil {
		bot.Stop()
	}
	relayClient.Stop()
	sched.Stop()
	workers.Stop()
	if err := statusServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Status server shutdown failed", "error", err)
	}

	slog.Info("World node stopped")
}

// initLogger installs the default slog logger from app configuration
func initLogger(cfg *config.Config) {
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"
	logger.Init(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		"waystation",
		"1.0.0",
		cfg.Environment,
		addSource,
	))
}
