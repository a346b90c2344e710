// Package export renders the booking view as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"farmequip-backoffice/internal/domain"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat defaults to CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrValidation, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string {
	return string(f)
}

var bookingHeader = []string{
	"Booking ID", "Equipment", "Farmer", "Email", "Phone", "Start", "End",
	"Days", "Amount", "Status", "Payment", "Booked On",
}

func bookingRow(b domain.Booking) []string {
	return []string{
		b.ID, b.EquipmentName, b.FarmerName, b.FarmerEmail, b.FarmerPhone, b.StartDate, b.EndDate,
		strconv.Itoa(b.TotalDays), b.TotalAmount.StringFixed(2), string(b.Status), string(b.PaymentStatus), b.CreatedAt,
	}
}

// Bookings writes the rows in the order given.
func Bookings(w io.Writer, format Format, bookings []domain.Booking, sheet string) error {
	switch format {
	case FormatXLSX:
		return bookingsXLSX(w, bookings, sheet)
	default:
		return bookingsCSV(w, bookings)
	}
}

func bookingsCSV(w io.Writer, bookings []domain.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bookingHeader); err != nil {
		return err
	}
	for _, b := range bookings {
		if err := cw.Write(bookingRow(b)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func bookingsXLSX(w io.Writer, bookings []domain.Booking, sheet string) error {
	if sheet == "" {
		sheet = "Bookings"
	}
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	for col, title := range bookingHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(bookingHeader), 1)
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return err
	}

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID, b.EquipmentName, b.FarmerName, b.FarmerEmail, b.FarmerPhone, b.StartDate, b.EndDate,
			b.TotalDays, b.TotalAmount.InexactFloat64(), string(b.Status), string(b.PaymentStatus), b.CreatedAt,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
