package sqlstore

import (
	"context"
	"database/sql"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/utils"
)

const bookingColumns = `id, equipment_id, equipment_name, farmer_id, farmer_name, farmer_email, farmer_phone, start_date, end_date, total_days, total_amount, status, payment_status, created_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.EquipmentID, &b.EquipmentName, &b.FarmerID, &b.FarmerName, &b.FarmerEmail, &b.FarmerPhone,
		&b.StartDate, &b.EndDate, &b.TotalDays, &b.TotalAmount, &b.Status, &b.PaymentStatus, &b.CreatedAt)
	return b, err
}

func (r *bookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	logger.DatabaseCall("SELECT", "bookings")
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	items := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(items)), nil)
	return items, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundIfNoRows("booking", id, err)
	}
	return &b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	logger.DatabaseCall("UPDATE", "bookings", "id", id, "status", status)
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	return expectOneRow("booking", id, res)
}

// insertBooking stores b with totalDays derived from its dates.
func insertBooking(ctx context.Context, db execer, b domain.Booking) error {
	if days, err := utils.BookingDays(b.StartDate, b.EndDate); err == nil {
		b.TotalDays = days
	}
	stmt := `INSERT INTO bookings (` + bookingColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) ON CONFLICT (id) DO NOTHING`
	_, err := db.ExecContext(ctx, stmt, b.ID, b.EquipmentID, b.EquipmentName, b.FarmerID, b.FarmerName, b.FarmerEmail, b.FarmerPhone,
		b.StartDate, b.EndDate, b.TotalDays, b.TotalAmount, string(b.Status), string(b.PaymentStatus), b.CreatedAt)
	return err
}
