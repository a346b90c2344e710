package jobs

import (
	"context"
	"fmt"

	"farmequip-backoffice/internal/config"
	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/service"
)

// DigestSender delivers the daily dashboard digest.
type DigestSender interface {
	SendDigest(m domain.DashboardMetrics) error
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store     *repository.Store
	dashboard *service.DashboardScreen
	digest    DigestSender
	notifier  service.Notifier
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies. digest may be
// nil when mail is disabled.
func NewJobRunner(store *repository.Store, digest DigestSender, notifier service.Notifier, cfg *config.Config) *JobRunner {
	dashboard := service.NewDashboardScreen(store.EquipmentRepository, store.BookingRepository, store.FarmerRepository, service.Deps{Notifier: notifier})
	dashboard.Mount()
	return &JobRunner{
		store:     store,
		dashboard: dashboard,
		digest:    digest,
		notifier:  notifier,
		config:    cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) error {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Job panicked", "job", jobName, "panic", r)
				err = fmt.Errorf("job %s panicked: %v", jobName, r)
			}
		}()

		logger.Info("Starting job", "job", jobName)
		err = jobFunc(context.Background())
	}()
	if err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return err
	}
	logger.Info("Job completed", "job", jobName)
	return nil
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	_ = jr.SendDailyDigest()
	_ = jr.SendPendingReminder()
}
