package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"farmequip-backoffice/internal/config"
	"farmequip-backoffice/internal/jobs"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/notify"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/repository/memory"
	"farmequip-backoffice/internal/repository/sqlstore"
	"farmequip-backoffice/internal/scheduler"
	"farmequip-backoffice/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'daily-digest', 'pending-reminder', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FarmEquip cronjob runner...", "log_level", cfg.Log.Level)

	var store *repository.Store
	if cfg.Database.Driver == "memory" {
		logger.Info("Using in-memory store with demo data")
		store = memory.NewStore()
	} else {
		logger.Info("Connecting to database...", "driver", cfg.Database.Driver, "host", cfg.Database.Host)
		db, err := sqlstore.Open(context.Background(), cfg.Database.Driver, cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		logger.Info("Database connection established")
		store = sqlstore.NewStore(db)
	}

	var (
		digest   jobs.DigestSender
		notifier service.Notifier = notify.NewLogNotifier()
		mailer   *notify.Mailer
	)
	if cfg.SendGrid.Enabled && cfg.Admin.AlertEmail != "" {
		mailer = notify.NewMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName, cfg.Admin.AlertEmail)
		digest = mailer
		notifier = notify.Multi{notify.NewLogNotifier(), mailer}
	}
	// Alerts are mailed in the background; let them finish before exiting.
	flushMail := func() {
		if mailer != nil {
			mailer.Wait()
		}
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, digest, notifier, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		err := runJobOnce(jobRunner, *runOnce)
		flushMail()
		if err != nil {
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "entries", cronScheduler.Entries())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	flushMail()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) error {
	switch jobName {
	case "daily-digest":
		return jobRunner.SendDailyDigest()
	case "pending-reminder":
		return jobRunner.SendPendingReminder()
	case "all":
		jobRunner.RunAll()
		return nil
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - daily-digest\n")
		fmt.Printf("  - pending-reminder\n")
		fmt.Printf("  - all\n")
		return fmt.Errorf("unknown job %q", jobName)
	}
}
