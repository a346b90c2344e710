package sqlstore

import (
	"context"
	"database/sql"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/repository"
)

const farmerColumns = `id, name, email, phone, location, registration_date, equipment_count, total_rentals, verification_status, account_status, last_login`

type farmerRepository struct {
	db *sql.DB
}

func NewFarmerRepository(db *sql.DB) repository.FarmerRepository {
	return &farmerRepository{db: db}
}

func scanFarmer(row rowScanner) (domain.Farmer, error) {
	var f domain.Farmer
	err := row.Scan(&f.ID, &f.Name, &f.Email, &f.Phone, &f.Location, &f.RegistrationDate, &f.EquipmentCount,
		&f.TotalRentals, &f.VerificationStatus, &f.AccountStatus, &f.LastLogin)
	return f, err
}

func (r *farmerRepository) List(ctx context.Context) ([]domain.Farmer, error) {
	logger.DatabaseCall("SELECT", "farmers")
	rows, err := r.db.QueryContext(ctx, `SELECT `+farmerColumns+` FROM farmers ORDER BY id`)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	items := []domain.Farmer{}
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(items)), nil)
	return items, nil
}

func (r *farmerRepository) GetByID(ctx context.Context, id string) (*domain.Farmer, error) {
	f, err := scanFarmer(r.db.QueryRowContext(ctx, `SELECT `+farmerColumns+` FROM farmers WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundIfNoRows("farmer", id, err)
	}
	return &f, nil
}

func (r *farmerRepository) Update(ctx context.Context, f *domain.Farmer) error {
	stmt := `UPDATE farmers SET name=$1, email=$2, phone=$3, location=$4, verification_status=$5, account_status=$6 WHERE id=$7`
	logger.DatabaseCall("UPDATE", "farmers", "id", f.ID)
	res, err := r.db.ExecContext(ctx, stmt, f.Name, f.Email, f.Phone, f.Location,
		string(f.VerificationStatus), string(f.AccountStatus), f.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	return expectOneRow("farmer", f.ID, res)
}

func (r *farmerRepository) Delete(ctx context.Context, id string) error {
	logger.DatabaseCall("DELETE", "farmers", "id", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM farmers WHERE id = $1`, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	return expectOneRow("farmer", id, res)
}

func insertFarmer(ctx context.Context, db execer, f domain.Farmer) error {
	stmt := `INSERT INTO farmers (` + farmerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) ON CONFLICT (id) DO NOTHING`
	_, err := db.ExecContext(ctx, stmt, f.ID, f.Name, f.Email, f.Phone, f.Location, f.RegistrationDate, f.EquipmentCount,
		f.TotalRentals, string(f.VerificationStatus), string(f.AccountStatus), f.LastLogin)
	return err
}
