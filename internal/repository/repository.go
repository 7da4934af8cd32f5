package repository

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	ListActive(ctx context.Context, city string, page, pageSize int32) ([]domain.Vehicle, int32, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByLessee(ctx context.Context, lesseeID string) ([]domain.Booking, error)
	ListByLessor(ctx context.Context, lessorID string) ([]domain.Booking, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]domain.Booking, error)
	// Update only succeeds while the stored status still equals expectedStatus.
	// Otherwise it returns domain.ErrStaleBooking.
	Update(ctx context.Context, booking *domain.Booking, expectedStatus domain.BookingStatus) error
	Delete(ctx context.Context, id string) error

	// CountConfirmedOverlapping counts confirmed bookings of the vehicle whose start
	// or end date falls within [start, end].
	CountConfirmedOverlapping(ctx context.Context, vehicleID string, start, end time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error)
	SumTotalAmount(ctx context.Context, status domain.BookingStatus) (int64, error)

	ListPendingStartingBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
	ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
}
