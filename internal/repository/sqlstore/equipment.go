package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/utils"
)

const equipmentColumns = `id, name, category, description, daily_rate, weekly_rate, monthly_rate, location, availability, approval_status, condition, specifications, images, date_added`

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEquipment(row rowScanner) (domain.Equipment, error) {
	var e domain.Equipment
	var specs, images string
	err := row.Scan(&e.ID, &e.Name, &e.Category, &e.Description, &e.DailyRate, &e.WeeklyRate, &e.MonthlyRate,
		&e.Location, &e.Availability, &e.ApprovalStatus, &e.Condition, &specs, &images, &e.DateAdded)
	if err != nil {
		return e, err
	}
	if specs != "" {
		if err := json.Unmarshal([]byte(specs), &e.Specifications); err != nil {
			return e, fmt.Errorf("equipment %q specifications: %w", e.ID, err)
		}
	}
	if images != "" {
		if err := json.Unmarshal([]byte(images), &e.Images); err != nil {
			return e, fmt.Errorf("equipment %q images: %w", e.ID, err)
		}
	}
	return e, nil
}

func (r *equipmentRepository) List(ctx context.Context) ([]domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment ORDER BY id`
	logger.DatabaseCall("SELECT", "equipment")
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	items := []domain.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(items)), nil)
	return items, nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	e, err := scanEquipment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundIfNoRows("equipment", id, err)
	}
	return &e, nil
}

// Update reads, patches and writes back the row in one transaction so that
// the derived rates always follow the stored daily rate.
func (r *equipmentRepository) Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error) {
	logger.EnterMethod("equipmentRepository.Update", "id", id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	current, err := scanEquipment(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		err = notFoundIfNoRows("equipment", id, err)
		logger.ExitMethodWithError("equipmentRepository.Update", err, "id", id)
		return nil, err
	}

	updated := utils.PatchEquipment(current, patch)
	specs, err := json.Marshal(updated.Specifications)
	if err != nil {
		return nil, err
	}
	images, err := json.Marshal(nonNil(updated.Images))
	if err != nil {
		return nil, err
	}

	stmt := `UPDATE equipment SET name=$1, category=$2, description=$3, daily_rate=$4, weekly_rate=$5, monthly_rate=$6, location=$7, availability=$8, approval_status=$9, condition=$10, specifications=$11, images=$12 WHERE id=$13`
	logger.DatabaseCall("UPDATE", "equipment", "id", id)
	res, err := tx.ExecContext(ctx, stmt, updated.Name, updated.Category, updated.Description,
		updated.DailyRate, updated.WeeklyRate, updated.MonthlyRate, updated.Location,
		string(updated.Availability), string(updated.ApprovalStatus), updated.Condition,
		string(specs), string(images), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return nil, err
	}
	if err := expectOneRow("equipment", id, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.ExitMethod("equipmentRepository.Update", "id", id)
	return &updated, nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	logger.DatabaseCall("DELETE", "equipment", "id", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	return expectOneRow("equipment", id, res)
}

func insertEquipment(ctx context.Context, db execer, e domain.Equipment) error {
	e = utils.WithDerivedRates(e)
	specs, err := json.Marshal(e.Specifications)
	if err != nil {
		return err
	}
	images, err := json.Marshal(nonNil(e.Images))
	if err != nil {
		return err
	}
	stmt := `INSERT INTO equipment (` + equipmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) ON CONFLICT (id) DO NOTHING`
	_, err = db.ExecContext(ctx, stmt, e.ID, e.Name, e.Category, e.Description, e.DailyRate, e.WeeklyRate, e.MonthlyRate,
		e.Location, string(e.Availability), string(e.ApprovalStatus), e.Condition, string(specs), string(images), e.DateAdded)
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
