package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

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
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'check-subscriptions')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Gatekeeper Cronjob Runner...", "log_level", cfg.Log.Level)

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
	}
	approvalSvc := service.NewApprovalService(members, tg)
	adminSvc := service.NewAdminService(members)
	sweepSvc := service.NewSweepService(members, tg, tg, emailSvc)
	gatekeeper := service.NewGatekeeper(approvalSvc, adminSvc, sweepSvc)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(gatekeeper, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob runner...")
	cronScheduler.Stop()
}

func runJobOnce(jr *jobs.JobRunner, jobName string) {
	switch jobName {
	case "check-subscriptions":
		jr.CheckSubscriptions()
	default:
		logger.Error("Unknown job name", "job", jobName)
		log.Fatalf("Unknown job: %s (available: check-subscriptions)", jobName)
	}
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
