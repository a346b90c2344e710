package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/repository/memory"
)

func loadedFarmerScreen(t *testing.T, deps Deps) *FarmerScreen {
	t.Helper()
	s := NewFarmerScreen(memory.NewFarmerRepository(memory.SeedFarmers()), deps)
	s.Mount()
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s
}

func TestFarmerScreen_Verification(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s := loadedFarmerScreen(t, Deps{Notifier: rec, Listener: rec, Now: fixedNow})

	f, err := s.Verify(ctx, "F1003")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, f.VerificationStatus)
	assert.Equal(t, "Farmer verified successfully", rec.last().Message)

	_, err = s.Reject(ctx, "F1003")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = s.Verify(ctx, "F1005")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, []RecordKind{KindFarmers}, rec.changes)
}

func TestFarmerScreen_ToggleStatus(t *testing.T) {
	ctx := context.Background()
	s := loadedFarmerScreen(t, Deps{Now: fixedNow})

	f, err := s.ToggleStatus(ctx, "F1004")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountActive, f.AccountStatus)

	f, err = s.ToggleStatus(ctx, "F1004")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountInactive, f.AccountStatus)

	inactive := s.View(FarmerQuery{Account: "inactive"})
	require.Len(t, inactive, 1)
	assert.Equal(t, "F1004", inactive[0].ID)
}

func TestFarmerScreen_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Edit form", func(t *testing.T) {
		s := loadedFarmerScreen(t, Deps{Now: fixedNow})
		email := "robert.chen@example.com"
		f, err := s.Update(ctx, "F1003", domain.FarmerEdit{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, email, f.Email)
		assert.Equal(t, "Robert Chen", f.Name)
	})

	t.Run("Invalid email", func(t *testing.T) {
		s := loadedFarmerScreen(t, Deps{Now: fixedNow})
		email := "not-an-email"
		_, err := s.Update(ctx, "F1003", domain.FarmerEdit{Email: &email})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Collaborator failure", func(t *testing.T) {
		repo := new(MockFarmerRepo)
		repo.On("List", ctx).Return(memory.SeedFarmers(), nil).Once()
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Farmer")).Return(errors.New("boom")).Once()
		rec := &recorder{}

		s := NewFarmerScreen(repo, Deps{Notifier: rec, Now: fixedNow})
		s.Mount()
		_, err := s.Load(ctx)
		require.NoError(t, err)

		_, err = s.ToggleStatus(ctx, "F1001")
		assert.ErrorIs(t, err, domain.ErrFetchFailure)
		f, _ := s.Get("F1001")
		assert.Equal(t, domain.AccountActive, f.AccountStatus)
		assert.Equal(t, domain.NotificationError, rec.last().Kind)
		repo.AssertExpectations(t)
	})
}

func TestFarmerScreen_Delete(t *testing.T) {
	ctx := context.Background()
	s := loadedFarmerScreen(t, Deps{Now: fixedNow})

	assert.ErrorIs(t, s.Delete(ctx, "F1005"), domain.ErrNotConfirmed)
	require.NoError(t, s.Delete(WithConfirmation(ctx, true), "F1005"))
	assert.Len(t, s.View(FarmerQuery{}), 4)
	assert.ErrorIs(t, s.Delete(WithConfirmation(ctx, true), "F1005"), domain.ErrNotFound)
}

func TestFarmerScreen_View(t *testing.T) {
	s := loadedFarmerScreen(t, Deps{Now: fixedNow})

	got := s.View(FarmerQuery{})
	assert.Equal(t, "F1005", got[0].ID, "newest registration first")

	got = s.View(FarmerQuery{Search: "IA", Verification: "verified"})
	assert.Len(t, got, 3)

	got = s.View(FarmerQuery{Search: "f1002"})
	require.Len(t, got, 1)
	assert.Equal(t, "Sarah Johnson", got[0].Name)
}
