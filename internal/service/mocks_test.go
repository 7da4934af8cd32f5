package service_test

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) list(args mock.Arguments) ([]domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	return m.list(m.Called(ctx))
}
func (m *MockBookingRepo) ListByLessee(ctx context.Context, id string) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, id))
}
func (m *MockBookingRepo) ListByLessor(ctx context.Context, id string) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, id))
}
func (m *MockBookingRepo) ListByVehicle(ctx context.Context, id string) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, id))
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	args := m.Called(ctx, b, expected)
	return args.Error(0)
}
func (m *MockBookingRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookingRepo) CountConfirmedOverlapping(ctx context.Context, vehicleID string, start, end time.Time) (int64, error) {
	args := m.Called(ctx, vehicleID, start, end)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookingRepo) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.BookingStatus]int64), args.Error(1)
}
func (m *MockBookingRepo) SumTotalAmount(ctx context.Context, status domain.BookingStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookingRepo) ListPendingStartingBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, cutoff))
}
func (m *MockBookingRepo) ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	return m.list(m.Called(ctx, from, to))
}

type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) ListActive(ctx context.Context, city string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, city, page, pageSize)
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}
func (m *MockVehicleRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
