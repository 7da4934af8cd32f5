package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"

	"github.com/lib/pq"
)

const vehicleColumns = `id, owner_id, make, model, year, license_plate, type, fuel_type,
	daily_rate_cents, hourly_rate_cents, security_deposit_cents, status, city, state, latitude, longitude,
	photos, is_active, created_at, updated_at`

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func scanVehicle(s rowScanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := s.Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year, &v.LicensePlate, &v.Type, &v.FuelType,
		&v.DailyRateCents, &v.HourlyRateCents, &v.SecurityDepositCents, &v.Status, &v.City, &v.State, &v.Latitude, &v.Longitude,
		pq.Array(&v.Photos), &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (` + vehicleColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	logger.DatabaseCall("INSERT", "vehicles", "vehicle_id", v.ID)
	_, err := r.db.ExecContext(ctx, query, v.ID, v.OwnerID, v.Make, v.Model, v.Year, v.LicensePlate, v.Type, v.FuelType,
		v.DailyRateCents, v.HourlyRateCents, v.SecurityDepositCents, v.Status, v.City, v.State, v.Latitude, v.Longitude,
		pq.Array(v.Photos), v.IsActive, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "vehicle_id", v.ID)
		return fmt.Errorf("insert vehicle: %w", err)
	}
	logger.DatabaseResult("INSERT", 1, nil, "vehicle_id", v.ID)
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("vehicle", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	return v, nil
}

func (r *vehicleRepository) ListActive(ctx context.Context, city string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	offset := (page - 1) * pageSize
	where := ` FROM vehicles WHERE is_active = TRUE AND status = $1`
	args := []any{domain.VehicleStatusActive}
	if city != "" {
		where += ` AND LOWER(city) = LOWER($2)`
		args = append(args, city)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count vehicles: %w", err)
	}

	query := `SELECT ` + vehicleColumns + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	vehicles, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return vehicles, count, nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.query(ctx, query, ownerID)
}

func (r *vehicleRepository) query(ctx context.Context, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET make=$1, model=$2, year=$3, daily_rate_cents=$4, hourly_rate_cents=$5, security_deposit_cents=$6,
	          status=$7, city=$8, state=$9, latitude=$10, longitude=$11, photos=$12, is_active=$13, updated_at=$14 WHERE id=$15`
	v.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, v.Make, v.Model, v.Year, v.DailyRateCents, v.HourlyRateCents, v.SecurityDepositCents,
		v.Status, v.City, v.State, v.Latitude, v.Longitude, pq.Array(v.Photos), v.IsActive, v.UpdatedAt, v.ID)
	if err != nil {
		return fmt.Errorf("update vehicle %s: %w", v.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.NewNotFoundError("vehicle", v.ID)
	}
	return nil
}
