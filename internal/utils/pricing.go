package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/listing"
)

var (
	weeklyFactor  = decimal.RequireFromString("0.90")
	monthlyFactor = decimal.RequireFromString("0.85")
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// Date represents a calendar date
type Date struct {
	Year  int
	Month int
	Day   int
}

// DateDifference is a span expressed as whole months plus remaining days.
type DateDifference struct {
	Months int
	Days   int
}

// Quote is the tiered price of a rental period.
type Quote struct {
	TotalDays   int             `json:"totalDays"`
	Months      int             `json:"months"`
	Weeks       int             `json:"weeks"`
	Days        int             `json:"days"`
	MonthsCost  decimal.Decimal `json:"monthsCost"`
	WeeksCost   decimal.Decimal `json:"weeksCost"`
	DaysCost    decimal.Decimal `json:"daysCost"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// DeriveRates computes the weekly and monthly rates from the daily rate:
// 7 days at 10% off and 30 days at 15% off, rounded to cents.
func DeriveRates(daily decimal.Decimal) (weekly, monthly decimal.Decimal) {
	weekly = daily.Mul(decimal.NewFromInt(daysPerWeek)).Mul(weeklyFactor).Round(2)
	monthly = daily.Mul(decimal.NewFromInt(daysPerMonth)).Mul(monthlyFactor).Round(2)
	return weekly, monthly
}

// WithDerivedRates returns e with weekly and monthly rates recomputed.
func WithDerivedRates(e domain.Equipment) domain.Equipment {
	e.WeeklyRate, e.MonthlyRate = DeriveRates(e.DailyRate)
	return e
}

// PatchEquipment applies p to e and keeps the derived rates consistent.
func PatchEquipment(e domain.Equipment, p domain.EquipmentPatch) domain.Equipment {
	e = p.Apply(e)
	if p.DailyRate != nil {
		e = WithDerivedRates(e)
	}
	return e
}

// ParseDate reads the calendar date from anything listing.ParseDate accepts,
// so yyyy-mm-dd and RFC 3339 timestamps both work.
func ParseDate(dateStr string) (Date, error) {
	if t, ok := listing.ParseDate(dateStr); ok {
		year, month, day := t.Date()
		return Date{Year: year, Month: int(month), Day: day}, nil
	}
	return Date{}, dateError(dateStr)
}

// dateError explains why dateStr was rejected.
func dateError(dateStr string) error {
	parts := strings.Split(strings.TrimSpace(dateStr), "-")
	if len(parts) != 3 {
		return fmt.Errorf("invalid date format, expected yyyy-mm-dd or RFC 3339")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("invalid year: %v", err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid month: %v", err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return fmt.Errorf("day must be between 1 and %d", DaysInMonth(year, month))
	}

	return fmt.Errorf("invalid date format, expected yyyy-mm-dd or RFC 3339")
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func (d Date) before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// ordinal counts days since 0001-01-01 (proleptic Gregorian).
func (d Date) ordinal() int {
	y := d.Year - 1
	n := y*365 + y/4 - y/100 + y/400
	for m := 1; m < d.Month; m++ {
		n += DaysInMonth(d.Year, m)
	}
	return n + d.Day
}

// CalculateDateDifference computes the span from start to end counting both
// ends, as whole months plus remaining days.
func CalculateDateDifference(startDate, endDate Date) (DateDifference, error) {
	if endDate.before(startDate) {
		return DateDifference{}, fmt.Errorf("end date must be >= start date")
	}

	years := endDate.Year - startDate.Year
	months := endDate.Month - startDate.Month
	days := endDate.Day - startDate.Day + 1

	if days < 0 {
		months--
		prevMonth := endDate.Month - 1
		prevYear := endDate.Year
		if prevMonth < 1 {
			prevMonth = 12
			prevYear--
		}
		days += DaysInMonth(prevYear, prevMonth)
	}
	if months < 0 {
		years--
		months += 12
	}

	return DateDifference{Months: months + 12*years, Days: days}, nil
}

// BookingDays returns the whole-day span between start and end (end minus
// start), with a same-day booking counting as one day.
func BookingDays(startDate, endDate string) (int, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %w", err)
	}
	if end.before(start) {
		return 0, fmt.Errorf("end date must be >= start date")
	}
	days := end.ordinal() - start.ordinal()
	if days < 1 {
		days = 1
	}
	return days, nil
}

// QuoteRental prices a rental of e between two dates with the tiered scheme:
// whole months at the monthly rate, then whole weeks at the weekly rate, then
// the remaining days at the daily rate. Both ends of the period are counted.
func QuoteRental(e domain.Equipment, startDate, endDate string) (Quote, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid end date: %w", err)
	}

	diff, err := CalculateDateDifference(start, end)
	if err != nil {
		return Quote{}, err
	}

	weekly, monthly := DeriveRates(e.DailyRate)
	weeks := diff.Days / daysPerWeek
	days := diff.Days % daysPerWeek

	q := Quote{
		TotalDays:  end.ordinal() - start.ordinal() + 1,
		Months:     diff.Months,
		Weeks:      weeks,
		Days:       days,
		MonthsCost: monthly.Mul(decimal.NewFromInt(int64(diff.Months))),
		WeeksCost:  weekly.Mul(decimal.NewFromInt(int64(weeks))),
		DaysCost:   e.DailyRate.Mul(decimal.NewFromInt(int64(days))),
	}
	q.TotalAmount = q.MonthsCost.Add(q.WeeksCost).Add(q.DaysCost).Round(2)
	return q, nil
}
