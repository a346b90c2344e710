// Package sqlstore persists the back office in PostgreSQL (lib/pq) or SQLite
// (modernc.org/sqlite). Statements use $N placeholders and plain TEXT/NUMERIC
// columns so both drivers share them.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/repository"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS equipment (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		daily_rate NUMERIC NOT NULL,
		weekly_rate NUMERIC NOT NULL,
		monthly_rate NUMERIC NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		availability TEXT NOT NULL,
		approval_status TEXT NOT NULL,
		condition TEXT NOT NULL DEFAULT '',
		specifications TEXT NOT NULL DEFAULT '{}',
		images TEXT NOT NULL DEFAULT '[]',
		date_added TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		equipment_id TEXT NOT NULL,
		equipment_name TEXT NOT NULL DEFAULT '',
		farmer_id TEXT NOT NULL DEFAULT '',
		farmer_name TEXT NOT NULL DEFAULT '',
		farmer_email TEXT NOT NULL DEFAULT '',
		farmer_phone TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		total_days INTEGER NOT NULL,
		total_amount NUMERIC NOT NULL CHECK (total_amount >= 0),
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS farmers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		registration_date TEXT NOT NULL DEFAULT '',
		equipment_count INTEGER NOT NULL DEFAULT 0,
		total_rentals INTEGER NOT NULL DEFAULT 0,
		verification_status TEXT NOT NULL,
		account_status TEXT NOT NULL,
		last_login TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate creates the tables when they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		logger.DatabaseCall("CREATE", "schema")
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.DatabaseResult("CREATE", 0, err)
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Seed inserts records whose ids are not already present.
func Seed(ctx context.Context, db *sql.DB, equipment []domain.Equipment, bookings []domain.Booking, farmers []domain.Farmer) error {
	logger.EnterMethod("sqlstore.Seed", "equipment", len(equipment), "bookings", len(bookings), "farmers", len(farmers))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range equipment {
		if err := insertEquipment(ctx, tx, e); err != nil {
			logger.ExitMethodWithError("sqlstore.Seed", err, "equipment", e.ID)
			return err
		}
	}
	for _, b := range bookings {
		if err := insertBooking(ctx, tx, b); err != nil {
			logger.ExitMethodWithError("sqlstore.Seed", err, "booking", b.ID)
			return err
		}
	}
	for _, f := range farmers {
		if err := insertFarmer(ctx, tx, f); err != nil {
			logger.ExitMethodWithError("sqlstore.Seed", err, "farmer", f.ID)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("sqlstore.Seed")
	return nil
}

// NewStore wires every SQL repository on db.
func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		EquipmentRepository: NewEquipmentRepository(db),
		BookingRepository:   NewBookingRepository(db),
		FarmerRepository:    NewFarmerRepository(db),
		SettingsRepository:  NewSettingsRepository(db),
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// notFoundIfNoRows maps sql.ErrNoRows to domain.ErrNotFound.
func notFoundIfNoRows(kind, id string, err error) error {
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
	}
	return err
}

// expectOneRow turns a zero-row update or delete into domain.ErrNotFound.
func expectOneRow(kind, id string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}
