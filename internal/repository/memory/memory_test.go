package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/utils"
)

func TestSeed(t *testing.T) {
	for _, b := range SeedBookings() {
		days, err := utils.BookingDays(b.StartDate, b.EndDate)
		require.NoError(t, err)
		assert.Equal(t, days, b.TotalDays, b.ID)
	}
	for _, e := range SeedEquipment() {
		weekly, monthly := utils.DeriveRates(e.DailyRate)
		assert.True(t, weekly.Equal(e.WeeklyRate), e.ID)
		assert.True(t, monthly.Equal(e.MonthlyRate), e.ID)
	}
}

func TestEquipmentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEquipmentRepository(SeedEquipment())

	t.Run("Update recomputes rates", func(t *testing.T) {
		rate := decimal.NewFromInt(120)
		e, err := repo.Update(ctx, "E1001", domain.EquipmentPatch{DailyRate: &rate})
		require.NoError(t, err)
		assert.Equal(t, "756.00", e.WeeklyRate.StringFixed(2))
		assert.Equal(t, "3060.00", e.MonthlyRate.StringFixed(2))

		stored, err := repo.GetByID(ctx, "E1001")
		require.NoError(t, err)
		assert.True(t, stored.DailyRate.Equal(rate))
	})

	t.Run("Returned records do not alias storage", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		list[0].Images[0] = "changed"
		again, _ := repo.GetByID(ctx, list[0].ID)
		assert.NotEqual(t, "changed", again.Images[0])
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "E9999")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repo.Update(ctx, "E9999", domain.EquipmentPatch{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "E9999"), domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "E1005"))
		list, _ := repo.List(ctx)
		assert.Len(t, list, 4)
	})
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(SeedBookings())

	require.NoError(t, repo.UpdateStatus(ctx, "B1003", domain.BookingStatusApproved))
	b, err := repo.GetByID(ctx, "B1003")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusApproved, b.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "B0", domain.BookingStatusApproved), domain.ErrNotFound)
}

func TestFarmerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFarmerRepository(SeedFarmers())

	f, err := repo.GetByID(ctx, "F1003")
	require.NoError(t, err)
	f.VerificationStatus = domain.VerificationVerified
	require.NoError(t, repo.Update(ctx, f))

	again, _ := repo.GetByID(ctx, "F1003")
	assert.Equal(t, domain.VerificationVerified, again.VerificationStatus)

	require.NoError(t, repo.Delete(ctx, "F1003"))
	_, err = repo.GetByID(ctx, "F1003")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s := domain.DefaultSettings()
	s.Platform.SiteName = "Acme Rentals"
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme Rentals", got.Platform.SiteName)
}
