// Package memory is an in-process backend seeded with demo data. It is the
// default driver for local runs and the fixture for service tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/utils"
)

// NewStore returns a store seeded with the demo records and default settings.
func NewStore() *repository.Store {
	return &repository.Store{
		EquipmentRepository: NewEquipmentRepository(SeedEquipment()),
		BookingRepository:   NewBookingRepository(SeedBookings()),
		FarmerRepository:    NewFarmerRepository(SeedFarmers()),
		SettingsRepository:  NewSettingsRepository(),
	}
}

type equipmentRepository struct {
	mu    sync.RWMutex
	items []domain.Equipment
}

func NewEquipmentRepository(items []domain.Equipment) repository.EquipmentRepository {
	return &equipmentRepository{items: cloneEquipment(items)}
}

func (r *equipmentRepository) List(ctx context.Context) ([]domain.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneEquipment(r.items), nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.items, func(e domain.Equipment) bool { return e.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("equipment %q: %w", id, domain.ErrNotFound)
	}
	e := copyEquipment(r.items[i])
	return &e, nil
}

func (r *equipmentRepository) Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.items, func(e domain.Equipment) bool { return e.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("equipment %q: %w", id, domain.ErrNotFound)
	}
	r.items[i] = utils.PatchEquipment(r.items[i], patch)
	e := copyEquipment(r.items[i])
	return &e, nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.items, func(e domain.Equipment) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("equipment %q: %w", id, domain.ErrNotFound)
	}
	r.items = slices.Delete(r.items, i, i+1)
	return nil
}

type bookingRepository struct {
	mu    sync.RWMutex
	items []domain.Booking
}

func NewBookingRepository(items []domain.Booking) repository.BookingRepository {
	return &bookingRepository{items: slices.Clone(items)}
}

func (r *bookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items), nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.items, func(b domain.Booking) bool { return b.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("booking %q: %w", id, domain.ErrNotFound)
	}
	b := r.items[i]
	return &b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.items, func(b domain.Booking) bool { return b.ID == id })
	if i < 0 {
		return fmt.Errorf("booking %q: %w", id, domain.ErrNotFound)
	}
	r.items[i].Status = status
	return nil
}

type farmerRepository struct {
	mu    sync.RWMutex
	items []domain.Farmer
}

func NewFarmerRepository(items []domain.Farmer) repository.FarmerRepository {
	return &farmerRepository{items: slices.Clone(items)}
}

func (r *farmerRepository) List(ctx context.Context) ([]domain.Farmer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items), nil
}

func (r *farmerRepository) GetByID(ctx context.Context, id string) (*domain.Farmer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.items, func(f domain.Farmer) bool { return f.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("farmer %q: %w", id, domain.ErrNotFound)
	}
	f := r.items[i]
	return &f, nil
}

func (r *farmerRepository) Update(ctx context.Context, farmer *domain.Farmer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.items, func(f domain.Farmer) bool { return f.ID == farmer.ID })
	if i < 0 {
		return fmt.Errorf("farmer %q: %w", farmer.ID, domain.ErrNotFound)
	}
	r.items[i] = *farmer
	return nil
}

func (r *farmerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.items, func(f domain.Farmer) bool { return f.ID == id })
	if i < 0 {
		return fmt.Errorf("farmer %q: %w", id, domain.ErrNotFound)
	}
	r.items = slices.Delete(r.items, i, i+1)
	return nil
}

type settingsRepository struct {
	mu       sync.RWMutex
	settings *domain.Settings
}

// NewSettingsRepository starts empty; Load reports not found until the first
// Save.
func NewSettingsRepository() repository.SettingsRepository {
	return &settingsRepository{}
}

func (r *settingsRepository) Load(ctx context.Context) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return nil, fmt.Errorf("settings %q: %w", domain.SettingsKey, domain.ErrNotFound)
	}
	s := *r.settings
	return &s, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = &settings
	return nil
}

func copyEquipment(e domain.Equipment) domain.Equipment {
	e.Images = slices.Clone(e.Images)
	return e
}

func cloneEquipment(items []domain.Equipment) []domain.Equipment {
	out := make([]domain.Equipment, len(items))
	for i, e := range items {
		out[i] = copyEquipment(e)
	}
	return out
}
