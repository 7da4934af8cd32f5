package service

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/utils"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string, userType domain.UserType) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error) // user, access, refresh
	RefreshToken(ctx context.Context, userID string) (string, error)
}

type VehicleService interface {
	CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, city string, page, pageSize int32) ([]domain.Vehicle, int32, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error)
}

type RouteService interface {
	PlanRoute(ctx context.Context, origin, destination utils.Point) (*utils.Route, error)
	RouteDistance(ctx context.Context, points []utils.Point) (float64, error)
	IsWithinGeofence(ctx context.Context, point, center utils.Point, radiusKm float64) (bool, error)
	OptimizeRoute(ctx context.Context, waypoints []utils.Point) ([]utils.Point, error)
}

type BookingService interface {
	Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error)
	FindAll(ctx context.Context) ([]domain.Booking, error)
	FindOne(ctx context.Context, id string) (*domain.Booking, error)
	FindByLessee(ctx context.Context, lesseeID string) ([]domain.Booking, error)
	FindByLessor(ctx context.Context, lessorID string) ([]domain.Booking, error)
	FindByVehicle(ctx context.Context, vehicleID string) ([]domain.Booking, error)
	Update(ctx context.Context, id string, patch BookingPatch) (*domain.Booking, error)
	Remove(ctx context.Context, id string) error

	CheckVehicleAvailability(ctx context.Context, vehicleID string, start, end time.Time) (bool, error)

	ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error)
	RejectBooking(ctx context.Context, id, reason string) (*domain.Booking, error)
	StartTrip(ctx context.Context, id string, startMileage int) (*domain.Booking, error)
	EndTrip(ctx context.Context, id string, endMileage int, endPhotos []string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id, reason string) (*domain.Booking, error)
	ProcessEarlyReturn(ctx context.Context, id string, earlyReturnDate time.Time) (*domain.Booking, error)
	ExpireStaleBookings(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)

	GetBookingStats(ctx context.Context) (*domain.BookingStats, error)
	EstimateFuel(ctx context.Context, id string) (*utils.FuelEstimate, error)
}

type EmailService interface {
	SendBookingExpiredNotification(ctx context.Context, email, name string, booking *domain.Booking) error
	SendTripReminder(ctx context.Context, email, name string, booking *domain.Booking) error
}

// CreateBookingRequest holds the caller-supplied fields of a new booking.
// Route coordinates are optional; a route is planned only when all four are set.
// LessorID may be empty; it is always resolved to the vehicle owner.
type CreateBookingRequest struct {
	LesseeID             string
	LessorID             string
	VehicleID            string
	StartDate            time.Time
	EndDate              time.Time
	DailyRateCents       int64
	HourlyRateCents      int64
	SecurityDepositCents int64
	OriginCity           string
	DestinationCity      string
	OriginLatitude       *float64
	OriginLongitude      *float64
	DestinationLatitude  *float64
	DestinationLongitude *float64
}

// BookingPatch lists the fields Update may change. Nil means unchanged.
type BookingPatch struct {
	PaymentStatus        *domain.PaymentStatus
	PaymentTransactionID *string
	PaymentMethod        *string
	PaymentDate          *time.Time
	OriginCity           *string
	DestinationCity      *string
	ReturnNotes          *string
	LesseeRating         *int
	LessorRating         *int
	LesseeReview         *string
	LessorReview         *string
}
