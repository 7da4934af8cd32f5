package http_test

import (
	"context"
	"sync"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

// memBookings keeps bookings in memory. Methods the booking flows below do not
// reach are left to the embedded nil interface.
type memBookings struct {
	repository.BookingRepository
	mu   sync.Mutex
	byID map[string]domain.Booking
}

func newMemBookings() *memBookings {
	return &memBookings{byID: map[string]domain.Booking{}}
}

func (m *memBookings) Create(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id)
	}
	return &b, nil
}

func (m *memBookings) Update(_ context.Context, b *domain.Booking, expected domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[b.ID]
	if !ok || cur.Status != expected {
		return domain.ErrStaleBooking
	}
	m.byID[b.ID] = *b
	return nil
}

func (m *memBookings) CountConfirmedOverlapping(_ context.Context, vehicleID string, start, end time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	within := func(t time.Time) bool { return !t.Before(start) && !t.After(end) }
	var n int64
	for _, b := range m.byID {
		if b.VehicleID == vehicleID && b.Status == domain.BookingStatusConfirmed && (within(b.StartDate) || within(b.EndDate)) {
			n++
		}
	}
	return n, nil
}

type memVehicles struct {
	repository.VehicleRepository
	byID map[string]domain.Vehicle
}

func (m *memVehicles) GetByID(_ context.Context, id string) (*domain.Vehicle, error) {
	v, ok := m.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("vehicle", id)
	}
	return &v, nil
}
