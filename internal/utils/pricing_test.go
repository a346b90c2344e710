package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/listing"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		date, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, Date{Year: 2024, Month: 1, Day: 15}, date)
	})

	t.Run("RFC 3339 timestamp keeps its calendar day", func(t *testing.T) {
		date, err := ParseDate("2024-01-15T23:30:00-05:00")
		assert.NoError(t, err)
		assert.Equal(t, Date{Year: 2024, Month: 1, Day: 15}, date)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := ParseDate("2024-13-15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "month must be between 1 and 12")
	})

	t.Run("Day past end of month", func(t *testing.T) {
		_, err := ParseDate("2023-02-29")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "day must be between 1 and 28")
	})
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    int
		expected int
	}{
		{2024, 1, 31},
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 11, 30},
		{2000, 2, 29},
		{1900, 2, 28},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestCalculateDateDifference(t *testing.T) {
	tests := []struct {
		name   string
		start  Date
		end    Date
		months int
		days   int
	}{
		{"Same day", Date{2024, 1, 15}, Date{2024, 1, 15}, 0, 1},
		{"Same month", Date{2024, 1, 15}, Date{2024, 1, 20}, 0, 6},
		{"Cross month boundary", Date{2024, 1, 25}, Date{2024, 2, 5}, 0, 12},
		{"Exact months", Date{2024, 1, 15}, Date{2024, 3, 14}, 2, 0},
		{"Cross year boundary", Date{2023, 11, 15}, Date{2024, 2, 10}, 2, 27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, err := CalculateDateDifference(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.months, diff.Months)
			assert.Equal(t, tt.days, diff.Days)
		})
	}

	t.Run("End before start", func(t *testing.T) {
		_, err := CalculateDateDifference(Date{2024, 1, 20}, Date{2024, 1, 15})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "end date must be >= start date")
	})
}

func TestDeriveRates(t *testing.T) {
	t.Run("Daily rate 100", func(t *testing.T) {
		weekly, monthly := DeriveRates(decimal.NewFromInt(100))
		assert.Equal(t, "630.00", weekly.StringFixed(2))
		assert.Equal(t, "2550.00", monthly.StringFixed(2))
	})

	t.Run("Daily rate 120", func(t *testing.T) {
		weekly, monthly := DeriveRates(decimal.NewFromInt(120))
		assert.Equal(t, "756.00", weekly.StringFixed(2))
		assert.Equal(t, "3060.00", monthly.StringFixed(2))
	})

	t.Run("Fractional daily rate rounds to cents", func(t *testing.T) {
		weekly, monthly := DeriveRates(decimal.RequireFromString("33.33"))
		assert.Equal(t, "209.98", weekly.StringFixed(2))
		assert.Equal(t, "849.92", monthly.StringFixed(2))
	})
}

func TestPatchEquipment(t *testing.T) {
	base := WithDerivedRates(domain.Equipment{ID: "E1", Name: "Tractor", DailyRate: decimal.NewFromInt(100)})

	t.Run("Daily rate change recomputes derived rates", func(t *testing.T) {
		rate := decimal.NewFromInt(120)
		got := PatchEquipment(base, domain.EquipmentPatch{DailyRate: &rate})
		assert.Equal(t, "120.00", got.DailyRate.StringFixed(2))
		assert.Equal(t, "756.00", got.WeeklyRate.StringFixed(2))
		assert.Equal(t, "3060.00", got.MonthlyRate.StringFixed(2))
	})

	t.Run("Other fields leave rates alone", func(t *testing.T) {
		name := "Big Tractor"
		got := PatchEquipment(base, domain.EquipmentPatch{Name: &name})
		assert.Equal(t, "Big Tractor", got.Name)
		assert.True(t, base.WeeklyRate.Equal(got.WeeklyRate))
		assert.True(t, base.MonthlyRate.Equal(got.MonthlyRate))
	})
}

func TestBookingDays(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2023-08-15", "2023-08-18", 3},
		{"2023-08-20", "2023-08-25", 5},
		{"2023-10-01", "2023-10-05", 4},
		{"2023-10-10", "2023-10-10", 1},
		{"2023-12-30", "2024-01-02", 3},
		{"2024-02-28", "2024-03-01", 2},
		{"2023-08-15T09:00:00Z", "2023-08-18T17:00:00Z", 3},
		{"2023-08-15", "2023-08-18T08:00:00+02:00", 3},
		{"2023-10-10T08:00:00Z", "2023-10-10T18:00:00Z", 1},
	}
	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			got, err := BookingDays(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("End before start", func(t *testing.T) {
		_, err := BookingDays("2023-08-18", "2023-08-15")
		assert.Error(t, err)
	})

	t.Run("Accepts whatever the filter treats as a date", func(t *testing.T) {
		for _, s := range []string{"2023-08-15", "2023-08-15T09:00:00Z"} {
			_, ok := listing.ParseDate(s)
			require.True(t, ok)
			_, err := BookingDays(s, s)
			assert.NoError(t, err, s)
		}
	})

	t.Run("Garbage input", func(t *testing.T) {
		_, err := BookingDays("soon", "2023-08-15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid start date")
	})
}

func TestQuoteRental(t *testing.T) {
	e := domain.Equipment{ID: "E1", DailyRate: decimal.NewFromInt(10)}

	tests := []struct {
		name       string
		start, end string
		total      string
		days       int
	}{
		{"One day", "2024-01-15", "2024-01-15", "10.00", 1},
		{"One week", "2024-01-15", "2024-01-21", "63.00", 7},
		{"1 week + 4 days", "2024-01-15", "2024-01-25", "103.00", 11},
		{"Two months", "2024-01-15", "2024-03-14", "510.00", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := QuoteRental(e, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.total, q.TotalAmount.StringFixed(2))
			assert.Equal(t, tt.days, q.TotalDays)
		})
	}

	t.Run("End before start", func(t *testing.T) {
		_, err := QuoteRental(e, "2024-01-20", "2024-01-15")
		assert.Error(t, err)
	})
}
