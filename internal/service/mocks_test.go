package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"farmequip-backoffice/internal/domain"
)

type MockEquipmentRepo struct{ mock.Mock }

func (m *MockEquipmentRepo) List(ctx context.Context) ([]domain.Equipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}

func (m *MockEquipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentRepo) Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockFarmerRepo struct{ mock.Mock }

func (m *MockFarmerRepo) List(ctx context.Context) ([]domain.Farmer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Farmer), args.Error(1)
}

func (m *MockFarmerRepo) GetByID(ctx context.Context, id string) (*domain.Farmer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farmer), args.Error(1)
}

func (m *MockFarmerRepo) Update(ctx context.Context, farmer *domain.Farmer) error {
	return m.Called(ctx, farmer).Error(0)
}

func (m *MockFarmerRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSettingsRepo struct{ mock.Mock }

func (m *MockSettingsRepo) Load(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsRepo) Save(ctx context.Context, settings domain.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

// recorder collects notifications and change events.
type recorder struct {
	mu      sync.Mutex
	notes   []domain.Notification
	changes []RecordKind
}

func (r *recorder) Notify(ctx context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) RecordsChanged(kind RecordKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, kind)
}

func (r *recorder) last() domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return domain.Notification{}
	}
	return r.notes[len(r.notes)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}
