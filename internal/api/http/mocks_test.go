package http_test

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/utils"

	"github.com/stretchr/testify/mock"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) booking(args mock.Arguments) (*domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) list(args mock.Arguments) ([]domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) Create(ctx context.Context, req service.CreateBookingRequest) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, req))
}
func (m *MockBookingService) FindAll(ctx context.Context) ([]domain.Booking, error) {
	return m.list(m.Called(ctx))
}
func (m *MockBookingService) FindOne(ctx context.Context, id string) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id))
}
func (m *MockBookingService) FindByLessee(ctx context.Context, id string) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, id))
}
func (m *MockBookingService) FindByLessor(ctx context.Context, id string) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, id))
}
func (m *MockBookingService) FindByVehicle(ctx context.Context, id string) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, id))
}
func (m *MockBookingService) Update(ctx context.Context, id string, patch service.BookingPatch) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id, patch))
}
func (m *MockBookingService) Remove(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockBookingService) CheckVehicleAvailability(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	args := m.Called(ctx, vehicleID, start, end)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingService) ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id))
}
func (m *MockBookingService) RejectBooking(ctx context.Context, id, reason string) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id, reason))
}
func (m *MockBookingService) StartTrip(ctx context.Context, id string, startMileage int) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id, startMileage))
}
func (m *MockBookingService) EndTrip(ctx context.Context, id string, endMileage int, endPhotos []string) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id, endMileage, endPhotos))
}
func (m *MockBookingService) CancelBooking(ctx context.Context, id, reason string) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id, reason))
}
func (m *MockBookingService) ProcessEarlyReturn(ctx context.Context, id string, date time.Time) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id, date))
}
func (m *MockBookingService) ExpireStaleBookings(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, cutoff))
}
func (m *MockBookingService) GetBookingStats(ctx context.Context) (*domain.BookingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingStats), args.Error(1)
}
func (m *MockBookingService) EstimateFuel(ctx context.Context, id string) (*utils.FuelEstimate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.FuelEstimate), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string, userType domain.UserType) (*domain.User, error) {
	args := m.Called(ctx, name, email, password, userType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.String(2), args.Error(3)
}
func (m *MockAuthService) RefreshToken(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}
func (m *MockVehicleService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleService) ListVehicles(ctx context.Context, city string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, city, page, pageSize)
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}
func (m *MockVehicleService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }
