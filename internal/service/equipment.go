package service

import (
	"context"
	"fmt"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/listing"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/metrics"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/utils"
)

// EquipmentQuery is the filter bar of the inventory screen.
type EquipmentQuery struct {
	Search       string
	Category     string
	Availability string
	Approval     string
	Sort         *listing.SortConfig
}

func (q EquipmentQuery) toQuery() listing.Query {
	return listing.Query{
		Search:       q.Search,
		SearchFields: []string{"name", "category", "location"},
		Selectors: []listing.Selector{
			{Field: "category", Value: q.Category, Mode: listing.MatchExact},
			{Field: "availability", Value: q.Availability, Mode: listing.MatchFold},
			{Field: "approvalStatus", Value: q.Approval, Mode: listing.MatchFold},
		},
	}
}

// EquipmentScreen manages the equipment inventory.
type EquipmentScreen struct {
	screen[domain.Equipment]
	repo repository.EquipmentRepository
}

func NewEquipmentScreen(repo repository.EquipmentRepository, deps Deps) *EquipmentScreen {
	return &EquipmentScreen{
		screen: newScreen[domain.Equipment]("equipment", KindEquipment, deps,
			listing.SortConfig{Key: "dateAdded", Direction: listing.Descending},
			"Failed to fetch equipment"),
		repo: repo,
	}
}

// Load replaces the store with a fresh fetch.
func (s *EquipmentScreen) Load(ctx context.Context) ([]domain.Equipment, error) {
	return s.load(ctx, s.repo.List, nil)
}

// View returns the filtered and sorted records.
func (s *EquipmentScreen) View(q EquipmentQuery) []domain.Equipment {
	return s.view(q.toQuery(), q.Sort)
}

// Get returns a record from the screen's store.
func (s *EquipmentScreen) Get(id string) (domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *EquipmentScreen) Approve(ctx context.Context, id string) (domain.Equipment, error) {
	return s.review(ctx, id, domain.ApprovalApproved, "Equipment approved successfully", "Failed to approve equipment")
}

func (s *EquipmentScreen) Reject(ctx context.Context, id string) (domain.Equipment, error) {
	return s.review(ctx, id, domain.ApprovalRejected, "Equipment rejected", "Failed to reject equipment")
}

func (s *EquipmentScreen) review(ctx context.Context, id string, target domain.ApprovalStatus, okMsg, failMsg string) (domain.Equipment, error) {
	logger.EnterMethod("EquipmentScreen.review", "id", id, "target", target)

	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.get(id)
	if err != nil {
		logger.ExitMethodWithError("EquipmentScreen.review", err)
		return domain.Equipment{}, err
	}
	if err := domain.ApprovalTransitions.Check(current.ApprovalStatus, target); err != nil {
		logger.ExitMethodWithError("EquipmentScreen.review", err, "id", id)
		return current, err
	}

	logger.RepositoryCall(s.name, "Update", "id", id, "approval_status", target)
	updated, err := s.repo.Update(ctx, id, domain.EquipmentPatch{ApprovalStatus: &target})
	logger.RepositoryResult(s.name, "Update", err, "id", id)
	if err != nil {
		return current, s.failed(ctx, "Update", failMsg, err)
	}

	if err := s.store.Put(*updated); err != nil {
		return current, err
	}
	metrics.IncTransition(string(s.kind), string(target))
	s.succeeded(ctx, okMsg)

	logger.ExitMethod("EquipmentScreen.review", "id", id, "approval_status", updated.ApprovalStatus)
	return *updated, nil
}

// Update applies an edit form. A daily rate change recomputes the weekly and
// monthly rates.
func (s *EquipmentScreen) Update(ctx context.Context, id string, patch domain.EquipmentPatch) (domain.Equipment, error) {
	logger.EnterMethod("EquipmentScreen.Update", "id", id)

	if patch.IsEmpty() {
		return domain.Equipment{}, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if patch.ApprovalStatus != nil {
		return domain.Equipment{}, fmt.Errorf("%w: approval status changes only through approve or reject", domain.ErrValidation)
	}
	if err := validateInput(patch); err != nil {
		return domain.Equipment{}, err
	}
	if patch.DailyRate != nil && patch.DailyRate.IsNegative() {
		return domain.Equipment{}, fmt.Errorf("%w: daily rate must not be negative", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.get(id)
	if err != nil {
		s.notify(ctx, domain.NotificationError, "Equipment not found")
		return domain.Equipment{}, err
	}

	logger.RepositoryCall(s.name, "Update", "id", id)
	updated, err := s.repo.Update(ctx, id, patch)
	logger.RepositoryResult(s.name, "Update", err, "id", id)
	if err != nil {
		return current, s.failed(ctx, "Update", "Failed to update equipment", err)
	}

	if err := s.store.Put(*updated); err != nil {
		return current, err
	}
	s.succeeded(ctx, "Equipment updated successfully")

	logger.ExitMethod("EquipmentScreen.Update", "id", id)
	return *updated, nil
}

// Delete removes a listing after the operator confirmed it.
func (s *EquipmentScreen) Delete(ctx context.Context, id string) error {
	logger.EnterMethod("EquipmentScreen.Delete", "id", id)

	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.get(id)
	if err != nil {
		return err
	}
	if !s.deps.Confirmer.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete %s? This action cannot be undone.", current.Name)) {
		return fmt.Errorf("delete equipment %s: %w", id, domain.ErrNotConfirmed)
	}

	logger.RepositoryCall(s.name, "Delete", "id", id)
	err = s.repo.Delete(ctx, id)
	logger.RepositoryResult(s.name, "Delete", err, "id", id)
	if err != nil {
		return s.failed(ctx, "Delete", "Failed to delete equipment", err)
	}

	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.succeeded(ctx, "Equipment deleted successfully")

	logger.ExitMethod("EquipmentScreen.Delete", "id", id)
	return nil
}

// Quote prices a rental of the listing between two dates.
func (s *EquipmentScreen) Quote(id, startDate, endDate string) (utils.Quote, error) {
	e, err := s.Get(id)
	if err != nil {
		return utils.Quote{}, err
	}
	q, err := utils.QuoteRental(e, startDate, endDate)
	if err != nil {
		return utils.Quote{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return q, nil
}
