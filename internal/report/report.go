// Package report derives the dashboard summary from the three record stores.
package report

import (
	"github.com/shopspring/decimal"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/listing"
)

// RecentLimit is how many bookings the dashboard lists as recent.
const RecentLimit = 5

// Compute aggregates the stores into dashboard metrics. It does no I/O and
// never mutates its inputs.
func Compute(equipment []domain.Equipment, bookings []domain.Booking, farmers []domain.Farmer) domain.DashboardMetrics {
	m := domain.DashboardMetrics{
		TotalEquipment: len(equipment),
		TotalFarmers:   len(farmers),
		TotalRevenue:   decimal.Zero,
	}

	for _, b := range bookings {
		if b.Status == domain.BookingStatusPending {
			m.PendingBookings++
		}
		if b.IsActive() {
			m.ActiveBookings++
		}
		if b.PaymentStatus == domain.PaymentPaid {
			m.TotalRevenue = m.TotalRevenue.Add(b.TotalAmount)
		}
	}

	m.RecentBookings = Recent(bookings, RecentLimit)
	if m.RecentBookings == nil {
		m.RecentBookings = []domain.Booking{}
	}
	return m
}

// Recent returns up to n bookings, newest createdAt first. Ties keep store
// order.
func Recent(bookings []domain.Booking, n int) []domain.Booking {
	sorted := listing.Sort(bookings, listing.SortConfig{Key: "createdAt", Direction: listing.Descending})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
