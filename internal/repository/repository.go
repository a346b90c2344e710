package repository

import (
	"context"

	"farmequip-backoffice/internal/domain"
)

// EquipmentRepository is the inventory backend. Update applies a partial
// patch; weekly and monthly rates are recomputed by the implementation when
// the daily rate changes.
type EquipmentRepository interface {
	List(ctx context.Context) ([]domain.Equipment, error)
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error)
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	List(ctx context.Context) ([]domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

type FarmerRepository interface {
	List(ctx context.Context) ([]domain.Farmer, error)
	GetByID(ctx context.Context, id string) (*domain.Farmer, error)
	Update(ctx context.Context, farmer *domain.Farmer) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository persists the settings blob under domain.SettingsKey.
// Load returns an error wrapping domain.ErrNotFound when nothing was saved.
type SettingsRepository interface {
	Load(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

// Store groups the repositories a backend provides.
type Store struct {
	EquipmentRepository
	BookingRepository
	FarmerRepository
	SettingsRepository
}
