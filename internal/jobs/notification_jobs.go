package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
)

// SendDailyDigest mails the current dashboard metrics to the admin.
func (jr *JobRunner) SendDailyDigest() error {
	return jr.runWithRecovery("SendDailyDigest", func(ctx context.Context) error {
		if jr.digest == nil {
			logger.Info("Mail disabled, skipping daily digest")
			return nil
		}

		m, err := jr.dashboard.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh dashboard: %w", err)
		}
		if err := jr.digest.SendDigest(m); err != nil {
			return fmt.Errorf("send digest: %w", err)
		}

		logger.Info("Daily digest sent",
			"pending_bookings", m.PendingBookings,
			"active_bookings", m.ActiveBookings,
			"total_revenue", m.TotalRevenue.StringFixed(2))
		return nil
	})
}

// SendPendingReminder notifies the admins about records waiting for review:
// pending bookings, pending listings and unverified farmers.
func (jr *JobRunner) SendPendingReminder() error {
	return jr.runWithRecovery("SendPendingReminder", func(ctx context.Context) error {
		counts, err := jr.pendingCounts(ctx)
		if err != nil {
			return err
		}

		var parts []string
		for _, c := range counts {
			if c.n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", c.n, c.label))
			}
		}
		if len(parts) == 0 {
			logger.Debug("Nothing awaiting review")
			return nil
		}

		if jr.notifier != nil {
			jr.notifier.Notify(ctx, domain.Notification{
				ID:        uuid.NewString(),
				Kind:      domain.NotificationSuccess,
				Message:   "Awaiting review: " + strings.Join(parts, ", "),
				Screen:    "reminders",
				CreatedOn: time.Now(),
			})
		}
		logger.Info("Pending review reminder sent", "summary", strings.Join(parts, ", "))
		return nil
	})
}

type pendingCount struct {
	label string
	n     int
}

func (jr *JobRunner) pendingCounts(ctx context.Context) ([]pendingCount, error) {
	bookings, err := jr.store.BookingRepository.List(ctx)
	if err != nil {
		return nil, domain.FetchFailure("bookings", err)
	}
	equipment, err := jr.store.EquipmentRepository.List(ctx)
	if err != nil {
		return nil, domain.FetchFailure("equipment", err)
	}
	farmers, err := jr.store.FarmerRepository.List(ctx)
	if err != nil {
		return nil, domain.FetchFailure("farmers", err)
	}

	counts := []pendingCount{{label: "bookings"}, {label: "equipment listings"}, {label: "farmer verifications"}}
	for _, b := range bookings {
		if b.Status == domain.BookingStatusPending {
			counts[0].n++
		}
	}
	for _, e := range equipment {
		if e.ApprovalStatus == domain.ApprovalPending {
			counts[1].n++
		}
	}
	for _, f := range farmers {
		if f.VerificationStatus == domain.VerificationPending {
			counts[2].n++
		}
	}
	return counts, nil
}
