package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

const bookingColumns = `id, lessee_id, lessor_id, vehicle_id, start_date, end_date, actual_start_date, actual_end_date, early_return, early_return_date,
	daily_rate_cents, hourly_rate_cents, base_amount_cents, distance_fee_cents, platform_fee_cents, lessor_amount_cents, total_amount_cents, security_deposit_cents, early_return_discount_cents,
	origin_city, destination_city, origin_latitude, origin_longitude, destination_latitude, destination_longitude, planned_distance_km, planned_duration_min, scheduled_route,
	start_mileage, end_mileage, actual_distance_km, end_photos,
	status, payment_status, payment_transaction_id, payment_method, payment_date,
	return_notes, lessee_rating, lessor_rating, lessee_review, lessor_review,
	created_at, updated_at`

// mutable columns, in the order bookingUpdateArgs returns them
const bookingUpdateSet = `actual_start_date=$1, actual_end_date=$2, early_return=$3, early_return_date=$4,
	base_amount_cents=$5, distance_fee_cents=$6, platform_fee_cents=$7, lessor_amount_cents=$8, total_amount_cents=$9, early_return_discount_cents=$10,
	origin_city=$11, destination_city=$12,
	start_mileage=$13, end_mileage=$14, actual_distance_km=$15, end_photos=$16,
	status=$17, payment_status=$18, payment_transaction_id=$19, payment_method=$20, payment_date=$21,
	return_notes=$22, lessee_rating=$23, lessor_rating=$24, lessee_review=$25, lessor_review=$26,
	updated_at=$27`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := s.Scan(
		&b.ID, &b.LesseeID, &b.LessorID, &b.VehicleID, &b.StartDate, &b.EndDate, &b.ActualStartDate, &b.ActualEndDate, &b.EarlyReturn, &b.EarlyReturnDate,
		&b.DailyRateCents, &b.HourlyRateCents, &b.BaseAmountCents, &b.DistanceFeeCents, &b.PlatformFeeCents, &b.LessorAmountCents, &b.TotalAmountCents, &b.SecurityDepositCents, &b.EarlyReturnDiscountCents,
		&b.OriginCity, &b.DestinationCity, &b.OriginLatitude, &b.OriginLongitude, &b.DestinationLatitude, &b.DestinationLongitude, &b.PlannedDistanceKm, &b.PlannedDurationMin, &b.ScheduledRoute,
		&b.StartMileage, &b.EndMileage, &b.ActualDistanceKm, &b.EndPhotos,
		&b.Status, &b.PaymentStatus, &b.PaymentTransactionID, &b.PaymentMethod, &b.PaymentDate,
		&b.ReturnNotes, &b.LesseeRating, &b.LessorRating, &b.LesseeReview, &b.LessorReview,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func bookingInsertArgs(b *domain.Booking) []any {
	return []any{
		b.ID, b.LesseeID, b.LessorID, b.VehicleID, b.StartDate, b.EndDate, b.ActualStartDate, b.ActualEndDate, b.EarlyReturn, b.EarlyReturnDate,
		b.DailyRateCents, b.HourlyRateCents, b.BaseAmountCents, b.DistanceFeeCents, b.PlatformFeeCents, b.LessorAmountCents, b.TotalAmountCents, b.SecurityDepositCents, b.EarlyReturnDiscountCents,
		b.OriginCity, b.DestinationCity, b.OriginLatitude, b.OriginLongitude, b.DestinationLatitude, b.DestinationLongitude, b.PlannedDistanceKm, b.PlannedDurationMin, b.ScheduledRoute,
		b.StartMileage, b.EndMileage, b.ActualDistanceKm, b.EndPhotos,
		b.Status, b.PaymentStatus, b.PaymentTransactionID, b.PaymentMethod, b.PaymentDate,
		b.ReturnNotes, b.LesseeRating, b.LessorRating, b.LesseeReview, b.LessorReview,
		b.CreatedAt, b.UpdatedAt,
	}
}

func bookingUpdateArgs(b *domain.Booking) []any {
	return []any{
		b.ActualStartDate, b.ActualEndDate, b.EarlyReturn, b.EarlyReturnDate,
		b.BaseAmountCents, b.DistanceFeeCents, b.PlatformFeeCents, b.LessorAmountCents, b.TotalAmountCents, b.EarlyReturnDiscountCents,
		b.OriginCity, b.DestinationCity,
		b.StartMileage, b.EndMileage, b.ActualDistanceKm, b.EndPhotos,
		b.Status, b.PaymentStatus, b.PaymentTransactionID, b.PaymentMethod, b.PaymentDate,
		b.ReturnNotes, b.LesseeRating, b.LessorRating, b.LesseeReview, b.LessorReview,
		b.UpdatedAt,
	}
}

// placeholders returns "$1, $2, ..., $n"
func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}

var insertBookingQuery = `INSERT INTO bookings (` + bookingColumns + `) VALUES (` + placeholders(44) + `)`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	logger.DatabaseCall("INSERT", "bookings", "booking_id", b.ID)
	res, err := r.db.ExecContext(ctx, insertBookingQuery, bookingInsertArgs(b)...)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "booking_id", b.ID)
		return fmt.Errorf("insert booking: %w", err)
	}
	rows, _ := res.RowsAffected()
	logger.DatabaseResult("INSERT", rows, nil, "booking_id", b.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	logger.DatabaseCall("SELECT", "bookings", "booking_id", id)
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("booking", id)
	}
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "booking_id", id)
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

func (r *bookingRepository) list(ctx context.Context, where string, args ...any) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY created_at DESC`

	logger.DatabaseCall("SELECT", "bookings", "where", where)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	logger.DatabaseResult("SELECT", int64(len(bookings)), nil)
	return bookings, nil
}

func (r *bookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, "")
}

func (r *bookingRepository) ListByLessee(ctx context.Context, lesseeID string) ([]domain.Booking, error) {
	return r.list(ctx, "lessee_id = $1", lesseeID)
}

func (r *bookingRepository) ListByLessor(ctx context.Context, lessorID string) ([]domain.Booking, error) {
	return r.list(ctx, "lessor_id = $1", lessorID)
}

func (r *bookingRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]domain.Booking, error) {
	return r.list(ctx, "vehicle_id = $1", vehicleID)
}

func (r *bookingRepository) ListPendingStartingBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	return r.list(ctx, "status = $1 AND start_date < $2", domain.BookingStatusPending, cutoff)
}

func (r *bookingRepository) ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	return r.list(ctx, "status = $1 AND start_date >= $2 AND start_date < $3", domain.BookingStatusConfirmed, from, to)
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking, expectedStatus domain.BookingStatus) error {
	b.UpdatedAt = time.Now().UTC()
	query := `UPDATE bookings SET ` + bookingUpdateSet + ` WHERE id=$28 AND status=$29`
	args := append(bookingUpdateArgs(b), b.ID, expectedStatus)

	logger.DatabaseCall("UPDATE", "bookings", "booking_id", b.ID, "expected_status", expectedStatus)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "booking_id", b.ID)
		return fmt.Errorf("update booking %s: %w", b.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking %s: %w", b.ID, err)
	}
	logger.DatabaseResult("UPDATE", rows, nil, "booking_id", b.ID)
	if rows == 0 {
		return domain.ErrStaleBooking
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	logger.DatabaseCall("DELETE", "bookings", "booking_id", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err, "booking_id", id)
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	logger.DatabaseResult("DELETE", rows, nil, "booking_id", id)
	if rows == 0 {
		return domain.NewNotFoundError("booking", id)
	}
	return nil
}

func (r *bookingRepository) CountConfirmedOverlapping(ctx context.Context, vehicleID string, start, end time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings
	          WHERE vehicle_id = $1 AND status = $2
	          AND (start_date BETWEEN $3 AND $4 OR end_date BETWEEN $3 AND $4)`
	logger.DatabaseCall("SELECT", "bookings", "vehicle_id", vehicleID)
	var count int64
	if err := r.db.QueryRowContext(ctx, query, vehicleID, domain.BookingStatusConfirmed, start, end).Scan(&count); err != nil {
		logger.DatabaseResult("SELECT", 0, err, "vehicle_id", vehicleID)
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	logger.DatabaseCall("SELECT", "bookings", "aggregate", "count_by_status")
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int64)
	for rows.Next() {
		var status domain.BookingStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *bookingRepository) SumTotalAmount(ctx context.Context, status domain.BookingStatus) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(total_amount_cents), 0) FROM bookings WHERE status = $1`
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum booking totals: %w", err)
	}
	return total, nil
}
