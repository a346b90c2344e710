package service

import (
	"context"
	"fmt"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/listing"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/metrics"
	"farmequip-backoffice/internal/repository"
)

type FarmerQuery struct {
	Search       string
	Verification string
	Account      string
	Sort         *listing.SortConfig
}

func (q FarmerQuery) toQuery() listing.Query {
	return listing.Query{
		Search:       q.Search,
		SearchFields: []string{"id", "name", "email", "location"},
		Selectors: []listing.Selector{
			{Field: "verificationStatus", Value: q.Verification, Mode: listing.MatchFold},
			{Field: "accountStatus", Value: q.Account, Mode: listing.MatchFold},
		},
	}
}

// FarmerScreen manages customer accounts.
type FarmerScreen struct {
	screen[domain.Farmer]
	repo repository.FarmerRepository
}

func NewFarmerScreen(repo repository.FarmerRepository, deps Deps) *FarmerScreen {
	return &FarmerScreen{
		screen: newScreen[domain.Farmer]("farmers", KindFarmers, deps,
			listing.SortConfig{Key: "registrationDate", Direction: listing.Descending},
			"Failed to fetch farmers"),
		repo: repo,
	}
}

func (s *FarmerScreen) Load(ctx context.Context) ([]domain.Farmer, error) {
	return s.load(ctx, s.repo.List, nil)
}

func (s *FarmerScreen) View(q FarmerQuery) []domain.Farmer {
	return s.view(q.toQuery(), q.Sort)
}

func (s *FarmerScreen) Get(id string) (domain.Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *FarmerScreen) Verify(ctx context.Context, id string) (domain.Farmer, error) {
	return s.verification(ctx, id, domain.VerificationVerified, "Farmer verified successfully")
}

func (s *FarmerScreen) Reject(ctx context.Context, id string) (domain.Farmer, error) {
	return s.verification(ctx, id, domain.VerificationRejected, "Farmer verification rejected")
}

func (s *FarmerScreen) verification(ctx context.Context, id string, target domain.VerificationStatus, okMsg string) (domain.Farmer, error) {
	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.get(id)
	if err != nil {
		return domain.Farmer{}, err
	}
	if err := domain.VerificationTransitions.Check(current.VerificationStatus, target); err != nil {
		return current, err
	}

	updated := current
	updated.VerificationStatus = target
	if err := s.save(ctx, updated, "Failed to update farmer verification"); err != nil {
		return current, err
	}
	metrics.IncTransition("verification", string(target))
	s.succeeded(ctx, okMsg)
	return updated, nil
}

// ToggleStatus flips the account between Active and Inactive.
func (s *FarmerScreen) ToggleStatus(ctx context.Context, id string) (domain.Farmer, error) {
	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.get(id)
	if err != nil {
		return domain.Farmer{}, err
	}

	updated := current
	updated.AccountStatus = current.AccountStatus.Toggle()
	if err := s.save(ctx, updated, "Failed to update account status"); err != nil {
		return current, err
	}
	metrics.IncTransition("account", string(updated.AccountStatus))
	s.succeeded(ctx, "Account status updated successfully")
	return updated, nil
}

// Update applies the edit form to a farmer.
func (s *FarmerScreen) Update(ctx context.Context, id string, edit domain.FarmerEdit) (domain.Farmer, error) {
	if err := validateInput(edit); err != nil {
		return domain.Farmer{}, err
	}

	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.get(id)
	if err != nil {
		return domain.Farmer{}, err
	}

	updated := edit.Apply(current)
	if err := s.save(ctx, updated, "Failed to update farmer information"); err != nil {
		return current, err
	}
	s.succeeded(ctx, "Farmer information updated successfully")
	return updated, nil
}

// Delete removes a farmer account after confirmation.
func (s *FarmerScreen) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.unlock(ctx)

	current, err := s.get(id)
	if err != nil {
		return err
	}
	if !s.deps.Confirmer.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete the account of %s?", current.Name)) {
		return fmt.Errorf("delete farmer %s: %w", id, domain.ErrNotConfirmed)
	}

	logger.RepositoryCall(s.name, "Delete", "id", id)
	err = s.repo.Delete(ctx, id)
	logger.RepositoryResult(s.name, "Delete", err, "id", id)
	if err != nil {
		return s.failed(ctx, "Delete", "Failed to delete farmer", err)
	}
	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.succeeded(ctx, "Farmer deleted successfully")
	return nil
}

// save persists updated and, on success, replaces the stored record. The
// caller holds mu.
func (s *FarmerScreen) save(ctx context.Context, updated domain.Farmer, failMsg string) error {
	logger.RepositoryCall(s.name, "Update", "id", updated.ID)
	err := s.repo.Update(ctx, &updated)
	logger.RepositoryResult(s.name, "Update", err, "id", updated.ID)
	if err != nil {
		return s.failed(ctx, "Update", failMsg, err)
	}
	return s.store.Put(updated)
}
