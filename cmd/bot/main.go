package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gatekeeper-bot/internal/bot"
	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/jobs"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
	"gatekeeper-bot/internal/repository/postgres"
	"gatekeeper-bot/internal/repository/sqlite"
	"gatekeeper-bot/internal/scheduler"
	"gatekeeper-bot/internal/service"
	"gatekeeper-bot/internal/telegram"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load env file if present; real env vars win either way
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Gatekeeper Bot...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Telegram configuration", "mode", cfg.Telegram.Mode, "channel_id", cfg.Telegram.ChannelID)
	logger.Info("Database configuration", "driver", cfg.Database.Driver)

	// Initialize Database
	db, members, err := openDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Telegram client
	tg, err := telegram.NewClient(cfg.Telegram)
	if err != nil {
		logger.Error("Failed to connect to Telegram", "error", err)
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	// Initialize Services
	var emailSvc service.EmailService
	if cfg.Email.Enabled {
		emailSvc = service.NewSendGridEmailService(
			cfg.Email.SendGridAPIKey,
			cfg.Email.FromEmail,
			cfg.Email.FromName,
			cfg.Email.AdminEmail,
		)
		logger.Info("Sweep summary emails enabled", "admin_email", cfg.Email.AdminEmail)
	}
	approvalSvc := service.NewApprovalService(members, tg)
	adminSvc := service.NewAdminService(members)
	sweepSvc := service.NewSweepService(members, tg, tg, emailSvc)
	gatekeeper := service.NewGatekeeper(approvalSvc, adminSvc, sweepSvc)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(gatekeeper, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Run the update dispatcher until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := bot.New(tg, cfg, gatekeeper)
	switch cfg.Telegram.Mode {
	case "webhook":
		err = dispatcher.RunWebhook(ctx)
	default:
		err = dispatcher.Run(ctx)
	}
	if err != nil {
		logger.Error("Dispatcher stopped with error", "error", err)
		log.Fatalf("Dispatcher stopped with error: %v", err)
	}
	logger.Info("Shutting down...")
}

func openDatabase(cfg *config.Config) (*sql.DB, repository.MemberRepository, error) {
	if cfg.Database.Driver == "postgres" {
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, postgres.NewStore(db), nil
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := sqlite.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, sqlite.NewStore(db), nil
}
