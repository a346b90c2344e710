package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"farmequip-backoffice/internal/domain"
)

func TestCompute(t *testing.T) {
	t.Run("Pending, active and paid revenue", func(t *testing.T) {
		bookings := []domain.Booking{
			{ID: "B1", Status: domain.BookingStatusPending, PaymentStatus: domain.PaymentAwaiting, TotalAmount: decimal.NewFromInt(675), CreatedAt: "2023-08-28"},
			{ID: "B2", Status: domain.BookingStatusActive, PaymentStatus: domain.PaymentPaid, TotalAmount: decimal.NewFromInt(550), CreatedAt: "2023-08-15"},
		}

		m := Compute(nil, bookings, nil)
		assert.Equal(t, 1, m.PendingBookings)
		assert.Equal(t, 1, m.ActiveBookings)
		assert.Equal(t, "550.00", m.TotalRevenue.StringFixed(2))
		assert.Equal(t, []string{"B1", "B2"}, []string{m.RecentBookings[0].ID, m.RecentBookings[1].ID})
	})

	t.Run("Confirmed counts as active, approved does not", func(t *testing.T) {
		bookings := []domain.Booking{
			{ID: "B1", Status: domain.BookingStatusConfirmed},
			{ID: "B2", Status: domain.BookingStatusApproved},
		}
		m := Compute(nil, bookings, nil)
		assert.Equal(t, 1, m.ActiveBookings)
		assert.Equal(t, 0, m.PendingBookings)
	})

	t.Run("Refunded revenue is excluded", func(t *testing.T) {
		bookings := []domain.Booking{
			{ID: "B1", PaymentStatus: domain.PaymentRefunded, TotalAmount: decimal.NewFromInt(1300)},
			{ID: "B2", PaymentStatus: domain.PaymentPaid, TotalAmount: decimal.RequireFromString("450.50")},
		}
		m := Compute(nil, bookings, nil)
		assert.Equal(t, "450.50", m.TotalRevenue.StringFixed(2))
	})

	t.Run("Counts", func(t *testing.T) {
		m := Compute(
			[]domain.Equipment{{ID: "E1"}, {ID: "E2"}, {ID: "E3"}},
			nil,
			[]domain.Farmer{{ID: "F1"}, {ID: "F2"}},
		)
		assert.Equal(t, 3, m.TotalEquipment)
		assert.Equal(t, 2, m.TotalFarmers)
	})

	t.Run("Empty input gives zeroed metrics", func(t *testing.T) {
		m := Compute(nil, nil, nil)
		assert.Equal(t, 0, m.TotalEquipment)
		assert.Equal(t, 0, m.PendingBookings)
		assert.Equal(t, 0, m.ActiveBookings)
		assert.Equal(t, 0, m.TotalFarmers)
		assert.True(t, m.TotalRevenue.IsZero())
		assert.NotNil(t, m.RecentBookings)
		assert.Empty(t, m.RecentBookings)
	})
}

func TestRecent(t *testing.T) {
	bookings := []domain.Booking{
		{ID: "B1", CreatedAt: "2023-08-10"},
		{ID: "B2", CreatedAt: "2023-08-15"},
		{ID: "B3", CreatedAt: "2023-08-28"},
		{ID: "B4", CreatedAt: "2023-09-15"},
		{ID: "B5", CreatedAt: "2023-09-30"},
		{ID: "B6", CreatedAt: "2023-08-15"},
		{ID: "B7"},
	}

	got := Recent(bookings, RecentLimit)
	var ids []string
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"B5", "B4", "B3", "B2", "B6"}, ids)
	assert.Equal(t, "B1", bookings[0].ID)
}
