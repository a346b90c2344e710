package domain

import "github.com/shopspring/decimal"

// DashboardMetrics is the summary shown on the admin overview.
type DashboardMetrics struct {
	TotalEquipment  int             `json:"totalEquipment"`
	PendingBookings int             `json:"pendingBookings"`
	ActiveBookings  int             `json:"activeBookings"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalFarmers    int             `json:"totalFarmers"`
	RecentBookings  []Booking       `json:"recentBookings"`
}
