package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/metrics"
	"farmequip-backoffice/internal/report"
	"farmequip-backoffice/internal/repository"
)

// DashboardScreen publishes the aggregate metrics. It is also the change
// listener of the list screens: any record change marks the metrics stale.
type DashboardScreen struct {
	equipment repository.EquipmentRepository
	bookings  repository.BookingRepository
	farmers   repository.FarmerRepository
	deps      Deps

	mu      sync.Mutex
	mounted bool
	gen     uint64
	current *domain.DashboardMetrics
	stale   bool
	pending outbox
}

func NewDashboardScreen(equipment repository.EquipmentRepository, bookings repository.BookingRepository, farmers repository.FarmerRepository, deps Deps) *DashboardScreen {
	return &DashboardScreen{
		equipment: equipment,
		bookings:  bookings,
		farmers:   farmers,
		deps:      deps.withDefaults(),
	}
}

func (s *DashboardScreen) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = true
	s.gen++
}

func (s *DashboardScreen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = false
	s.gen++
	s.current = nil
}

// RecordsChanged marks the published metrics stale.
func (s *DashboardScreen) RecordsChanged(kind RecordKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
	logger.WithScreen("dashboard").Debug("Metrics marked stale", "kind", kind)
}

// Metrics returns the published metrics, refreshing them first when none
// were computed yet or a record changed since.
func (s *DashboardScreen) Metrics(ctx context.Context) (domain.DashboardMetrics, error) {
	s.mu.Lock()
	if s.current != nil && !s.stale {
		m := *s.current
		s.mu.Unlock()
		return m, nil
	}
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh fetches the three collections concurrently and waits for all of
// them. If any fetch fails nothing is computed and the previous metrics stay
// as they were.
func (s *DashboardScreen) Refresh(ctx context.Context) (domain.DashboardMetrics, error) {
	logger.EnterMethod("DashboardScreen.Refresh")

	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return domain.DashboardMetrics{}, fmt.Errorf("dashboard: %w", domain.ErrUnmounted)
	}
	gen := s.gen
	s.mu.Unlock()

	var (
		g         errgroup.Group
		equipment []domain.Equipment
		bookings  []domain.Booking
		farmers   []domain.Farmer
	)
	g.Go(func() error {
		var err error
		equipment, err = s.equipment.List(ctx)
		return sourceErr("equipment", err)
	})
	g.Go(func() error {
		var err error
		bookings, err = s.bookings.List(ctx)
		return sourceErr("bookings", err)
	})
	g.Go(func() error {
		var err error
		farmers, err = s.farmers.List(ctx)
		return sourceErr("farmers", err)
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.unlock(ctx)
	if !s.mounted || s.gen != gen {
		logger.WithScreen("dashboard").Debug("Discarding dashboard result for unmounted screen")
		return domain.DashboardMetrics{}, fmt.Errorf("dashboard: %w", domain.ErrUnmounted)
	}
	if err != nil {
		s.notify(ctx, domain.NotificationError, "Failed to fetch dashboard data")
		logger.ExitMethodWithError("DashboardScreen.Refresh", err)
		return domain.DashboardMetrics{}, err
	}

	m := report.Compute(equipment, bookings, farmers)
	s.current = &m
	s.stale = false
	metrics.SetDashboard(m)

	logger.ExitMethod("DashboardScreen.Refresh", "equipment", m.TotalEquipment, "bookings", len(bookings), "farmers", m.TotalFarmers)
	return m, nil
}

func sourceErr(source string, err error) error {
	if err == nil {
		return nil
	}
	metrics.IncFetchFailure(source)
	logger.RepositoryResult("dashboard", source+".List", err)
	return domain.FetchFailure(source, err)
}

func (s *DashboardScreen) notify(ctx context.Context, kind domain.NotificationKind, message string) {
	metrics.IncNotification(kind)
	s.pending.notes = append(s.pending.notes, newNotification(kind, "dashboard", message, s.deps.Now()))
}

func (s *DashboardScreen) unlock(ctx context.Context) {
	out := s.pending.take()
	s.mu.Unlock()
	out.deliver(ctx, s.deps)
}
