package service

import (
	"context"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/listing"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/metrics"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/utils"
)

type BookingQuery struct {
	Search  string
	Status  string
	Payment string
	Dates   listing.DateWindow
	Sort    *listing.SortConfig
}

func (q BookingQuery) toQuery() listing.Query {
	return listing.Query{
		Search:       q.Search,
		SearchFields: []string{"id", "equipmentName", "farmerName", "farmerEmail"},
		Selectors: []listing.Selector{
			{Field: "status", Value: q.Status, Mode: listing.MatchFold},
			{Field: "paymentStatus", Value: q.Payment, Mode: listing.MatchContainsFold},
		},
		Dates:      q.Dates,
		StartField: "startDate",
		EndField:   "endDate",
	}
}

// BookingScreen reviews rental bookings.
type BookingScreen struct {
	screen[domain.Booking]
	repo repository.BookingRepository
}

func NewBookingScreen(repo repository.BookingRepository, deps Deps) *BookingScreen {
	return &BookingScreen{
		screen: newScreen[domain.Booking]("bookings", KindBookings, deps,
			listing.SortConfig{Key: "createdAt", Direction: listing.Descending},
			"Failed to fetch bookings"),
		repo: repo,
	}
}

func (s *BookingScreen) Load(ctx context.Context) ([]domain.Booking, error) {
	return s.load(ctx, s.repo.List, normalizeDays)
}

// normalizeDays derives totalDays from the dates. Bookings whose dates do
// not parse keep the stored count.
func normalizeDays(bookings []domain.Booking) []domain.Booking {
	for i := range bookings {
		days, err := utils.BookingDays(bookings[i].StartDate, bookings[i].EndDate)
		if err != nil {
			logger.Warn("Booking dates not parseable, keeping stored day count",
				"booking_id", bookings[i].ID, "error", err)
			continue
		}
		bookings[i].TotalDays = days
	}
	return bookings
}

func (s *BookingScreen) View(q BookingQuery) []domain.Booking {
	return s.view(q.toQuery(), q.Sort)
}

func (s *BookingScreen) Get(id string) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *BookingScreen) Approve(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusApproved, "Booking approved successfully", "Failed to approve booking")
}

func (s *BookingScreen) Reject(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusRejected, "Booking rejected", "Failed to reject booking")
}

// transition moves a pending booking to target. Any other current status
// leaves the booking untouched.
func (s *BookingScreen) transition(ctx context.Context, id string, target domain.BookingStatus, okMsg, failMsg string) (domain.Booking, error) {
	logger.EnterMethod("BookingScreen.transition", "id", id, "target", target)

	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.get(id)
	if err != nil {
		logger.ExitMethodWithError("BookingScreen.transition", err)
		return domain.Booking{}, err
	}
	if err := domain.BookingTransitions.Check(current.Status, target); err != nil {
		logger.ExitMethodWithError("BookingScreen.transition", err, "id", id)
		return current, err
	}

	logger.RepositoryCall(s.name, "UpdateStatus", "id", id, "status", target)
	err = s.repo.UpdateStatus(ctx, id, target)
	logger.RepositoryResult(s.name, "UpdateStatus", err, "id", id)
	if err != nil {
		return current, s.failed(ctx, "UpdateStatus", failMsg, err)
	}

	updated := current
	updated.Status = target
	if err := s.store.Put(updated); err != nil {
		return current, err
	}
	metrics.IncTransition(string(s.kind), string(target))
	s.succeeded(ctx, okMsg)

	logger.ExitMethod("BookingScreen.transition", "id", id, "status", target)
	return updated, nil
}
