package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/lock"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/utils"

	"github.com/google/uuid"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	routeSvc    RouteService
	locker      lock.Locker
	now         func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	routeSvc RouteService,
	locker lock.Locker,
	now func() time.Time,
) BookingService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if now == nil {
		now = time.Now
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		routeSvc:    routeSvc,
		locker:      locker,
		now:         now,
	}
}

func (s *bookingService) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Create", "vehicleID", req.VehicleID, "lesseeID", req.LesseeID)

	if err := validateCreateRequest(req); err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, err
	}
	if err := utils.ValidateBookingDates(req.StartDate, req.EndDate, s.now()); err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, err
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Create", err, "vehicleID", req.VehicleID)
		return nil, err
	}
	// the lessor is always the vehicle owner
	switch {
	case req.LessorID != "" && req.LessorID != vehicle.OwnerID:
		err := domain.NewValidationError("lessor does not own this vehicle")
		logger.ExitMethodWithError("bookingService.Create", err, "vehicleID", req.VehicleID, "lessorID", req.LessorID)
		return nil, err
	case req.LesseeID == vehicle.OwnerID:
		err := domain.NewValidationError("cannot book your own vehicle")
		logger.ExitMethodWithError("bookingService.Create", err, "vehicleID", req.VehicleID)
		return nil, err
	}
	req.LessorID = vehicle.OwnerID

	unlock, err := s.lock(ctx, vehicleLockKey(req.VehicleID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	available, err := s.CheckVehicleAvailability(ctx, req.VehicleID, req.StartDate, req.EndDate)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, err
	}
	if !available {
		err := domain.NewConflictError("vehicle is not available for the selected dates")
		logger.ExitMethodWithError("bookingService.Create", err, "vehicleID", req.VehicleID)
		return nil, err
	}

	pricing := utils.PricingInput{
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		DailyRateCents:       req.DailyRateCents,
		HourlyRateCents:      req.HourlyRateCents,
		SecurityDepositCents: req.SecurityDepositCents,
	}

	b := &domain.Booking{
		ID:                   uuid.NewString(),
		LesseeID:             req.LesseeID,
		LessorID:             req.LessorID,
		VehicleID:            req.VehicleID,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		DailyRateCents:       req.DailyRateCents,
		HourlyRateCents:      req.HourlyRateCents,
		SecurityDepositCents: req.SecurityDepositCents,
		OriginCity:           req.OriginCity,
		DestinationCity:      req.DestinationCity,
		OriginLatitude:       req.OriginLatitude,
		OriginLongitude:      req.OriginLongitude,
		DestinationLatitude:  req.DestinationLatitude,
		DestinationLongitude: req.DestinationLongitude,
		Status:               domain.BookingStatusPending,
		PaymentStatus:        domain.PaymentStatusPending,
	}

	if b.HasRouteCoordinates() {
		route, err := s.routeSvc.PlanRoute(ctx,
			utils.Point{Latitude: *b.OriginLatitude, Longitude: *b.OriginLongitude},
			utils.Point{Latitude: *b.DestinationLatitude, Longitude: *b.DestinationLongitude},
		)
		if err != nil {
			logger.ExitMethodWithError("bookingService.Create", err)
			return nil, err
		}
		points, err := json.Marshal(route.RoutePoints)
		if err != nil {
			return nil, fmt.Errorf("encode route points: %w", err)
		}
		pricing.DistanceKm = route.DistanceKm
		b.PlannedDistanceKm = route.DistanceKm
		b.PlannedDurationMin = route.DurationMin
		b.ScheduledRoute = string(points)
	}

	applyCost(b, utils.CalculateBookingCost(pricing))

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, err
	}

	logger.ExitMethod("bookingService.Create", "bookingID", b.ID, "totalAmountCents", b.TotalAmountCents)
	return b, nil
}

func validateCreateRequest(req CreateBookingRequest) error {
	switch {
	case strings.TrimSpace(req.LesseeID) == "":
		return domain.NewValidationError("lessee id is required")
	case strings.TrimSpace(req.VehicleID) == "":
		return domain.NewValidationError("vehicle id is required")
	case req.DailyRateCents < 0, req.HourlyRateCents < 0:
		return domain.NewValidationError("rates must not be negative")
	case req.SecurityDepositCents < 0:
		return domain.NewValidationError("security deposit must not be negative")
	}
	return nil
}

func applyCost(b *domain.Booking, cost utils.BookingCost) {
	b.BaseAmountCents = cost.BaseAmountCents
	b.DistanceFeeCents = cost.DistanceFeeCents
	b.PlatformFeeCents = cost.PlatformFeeCents
	b.LessorAmountCents = cost.LessorAmountCents
	b.TotalAmountCents = cost.TotalAmountCents
	b.SecurityDepositCents = cost.SecurityDepositCents
	b.EarlyReturnDiscountCents = cost.EarlyReturnDiscountCents
}

func (s *bookingService) FindAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookingRepo.List(ctx)
}

func (s *bookingService) FindOne(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) FindByLessee(ctx context.Context, lesseeID string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByLessee(ctx, lesseeID)
}

func (s *bookingService) FindByLessor(ctx context.Context, lessorID string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByLessor(ctx, lessorID)
}

func (s *bookingService) FindByVehicle(ctx context.Context, vehicleID string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByVehicle(ctx, vehicleID)
}

// Update edits bookkeeping fields. Status only changes through the lifecycle operations.
func (s *bookingService) Update(ctx context.Context, id string, patch BookingPatch) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Update", "bookingID", id)
	b, err := s.modify(ctx, id, func(b *domain.Booking) error {
		return applyPatch(b, patch)
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.Update", err, "bookingID", id)
		return nil, err
	}
	logger.ExitMethod("bookingService.Update", "bookingID", id)
	return b, nil
}

func applyPatch(b *domain.Booking, p BookingPatch) error {
	if p.PaymentStatus != nil {
		if !p.PaymentStatus.Valid() {
			return domain.NewValidationError("invalid payment status: " + string(*p.PaymentStatus))
		}
		b.PaymentStatus = *p.PaymentStatus
	}
	for _, r := range []*int{p.LesseeRating, p.LessorRating} {
		if r != nil && (*r < 1 || *r > 5) {
			return domain.NewValidationError("rating must be between 1 and 5")
		}
	}

	setIfPresent(&b.PaymentTransactionID, p.PaymentTransactionID)
	setIfPresent(&b.PaymentMethod, p.PaymentMethod)
	setIfPresent(&b.OriginCity, p.OriginCity)
	setIfPresent(&b.DestinationCity, p.DestinationCity)
	setIfPresent(&b.ReturnNotes, p.ReturnNotes)
	setIfPresent(&b.LesseeReview, p.LesseeReview)
	setIfPresent(&b.LessorReview, p.LessorReview)
	if p.PaymentDate != nil {
		b.PaymentDate = p.PaymentDate
	}
	if p.LesseeRating != nil {
		b.LesseeRating = p.LesseeRating
	}
	if p.LessorRating != nil {
		b.LessorRating = p.LessorRating
	}
	return nil
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (s *bookingService) Remove(ctx context.Context, id string) error {
	logger.EnterMethod("bookingService.Remove", "bookingID", id)
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("bookingService.Remove", err, "bookingID", id)
		return err
	}
	logger.ExitMethod("bookingService.Remove", "bookingID", id)
	return nil
}

// CheckVehicleAvailability reports false when a confirmed booking of the vehicle starts or ends
// within [start, end]. A confirmed booking that strictly contains the window is not detected.
func (s *bookingService) CheckVehicleAvailability(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, domain.NewValidationError("end date must be after start date")
	}
	n, err := s.bookingRepo.CountConfirmedOverlapping(ctx, vehicleID, start, end)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ConfirmBooking", "bookingID", id)

	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ConfirmBooking", err, "bookingID", id)
		return nil, err
	}
	// confirmations of the same vehicle must not interleave with each other or with Create
	unlock, err := s.lock(ctx, vehicleLockKey(current.VehicleID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := s.transition(ctx, id, domain.BookingStatusConfirmed, func(b *domain.Booking) error {
		available, err := s.CheckVehicleAvailability(ctx, b.VehicleID, b.StartDate, b.EndDate)
		if err != nil {
			return err
		}
		if !available {
			return domain.NewConflictError("vehicle already has a confirmed booking for these dates")
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.ConfirmBooking", err, "bookingID", id)
		return nil, err
	}
	logger.ExitMethod("bookingService.ConfirmBooking", "bookingID", id)
	return b, nil
}

func (s *bookingService) RejectBooking(ctx context.Context, id, reason string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusRejected, func(b *domain.Booking) error {
		b.ReturnNotes = reason
		return nil
	})
}

func (s *bookingService) StartTrip(ctx context.Context, id string, startMileage int) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.StartTrip", "bookingID", id, "startMileage", startMileage)
	if startMileage < 0 {
		err := domain.NewValidationError("start mileage must not be negative")
		logger.ExitMethodWithError("bookingService.StartTrip", err, "bookingID", id)
		return nil, err
	}
	b, err := s.transition(ctx, id, domain.BookingStatusActive, func(b *domain.Booking) error {
		now := s.now()
		b.ActualStartDate = &now
		b.StartMileage = startMileage
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.StartTrip", err, "bookingID", id)
		return nil, err
	}
	logger.ExitMethod("bookingService.StartTrip", "bookingID", id)
	return b, nil
}

func (s *bookingService) EndTrip(ctx context.Context, id string, endMileage int, endPhotos []string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.EndTrip", "bookingID", id, "endMileage", endMileage)
	b, err := s.transition(ctx, id, domain.BookingStatusCompleted, func(b *domain.Booking) error {
		if endMileage < b.StartMileage {
			return domain.NewValidationError(fmt.Sprintf("end mileage %d is below start mileage %d", endMileage, b.StartMileage))
		}
		if endPhotos == nil {
			endPhotos = []string{}
		}
		photos, err := json.Marshal(endPhotos)
		if err != nil {
			return fmt.Errorf("encode end photos: %w", err)
		}
		now := s.now()
		b.ActualEndDate = &now
		b.EndMileage = endMileage
		b.ActualDistanceKm = endMileage - b.StartMileage
		b.EndPhotos = string(photos)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.EndTrip", err, "bookingID", id)
		return nil, err
	}
	logger.ExitMethod("bookingService.EndTrip", "bookingID", id, "actualDistanceKm", b.ActualDistanceKm)
	return b, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id, reason string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CancelBooking", "bookingID", id)
	b, err := s.transition(ctx, id, domain.BookingStatusCancelled, func(b *domain.Booking) error {
		b.ReturnNotes = reason
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "bookingID", id)
		return nil, err
	}
	logger.ExitMethod("bookingService.CancelBooking", "bookingID", id)
	return b, nil
}

// ProcessEarlyReturn reprices the booking as ending at earlyReturnDate. The status is left unchanged.
func (s *bookingService) ProcessEarlyReturn(ctx context.Context, id string, earlyReturnDate time.Time) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ProcessEarlyReturn", "bookingID", id, "earlyReturnDate", earlyReturnDate)
	b, err := s.modify(ctx, id, func(b *domain.Booking) error {
		if b.Status != domain.BookingStatusConfirmed && b.Status != domain.BookingStatusActive {
			return domain.NewConflictError(fmt.Sprintf("early return is not possible for a %s booking", b.Status))
		}
		if !earlyReturnDate.After(b.StartDate) || !earlyReturnDate.Before(b.EndDate) {
			return domain.NewValidationError("early return date must fall between start and end date")
		}

		cost := utils.CalculateBookingCost(utils.PricingInput{
			StartDate:            b.StartDate,
			EndDate:              b.EndDate,
			DailyRateCents:       b.DailyRateCents,
			HourlyRateCents:      b.HourlyRateCents,
			SecurityDepositCents: b.SecurityDepositCents,
			DistanceKm:           b.PlannedDistanceKm,
			EarlyReturn:          true,
			EarlyReturnDate:      &earlyReturnDate,
		})
		b.EarlyReturn = true
		b.EarlyReturnDate = &earlyReturnDate
		applyCost(b, cost)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.ProcessEarlyReturn", err, "bookingID", id)
		return nil, err
	}
	logger.ExitMethod("bookingService.ProcessEarlyReturn", "bookingID", id, "totalAmountCents", b.TotalAmountCents)
	return b, nil
}

// ExpireStaleBookings expires pending bookings whose start date is before cutoff.
// Bookings that change concurrently are skipped.
func (s *bookingService) ExpireStaleBookings(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	stale, err := s.bookingRepo.ListPendingStartingBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	expired := make([]domain.Booking, 0, len(stale))
	for _, candidate := range stale {
		b, err := s.transition(ctx, candidate.ID, domain.BookingStatusExpired, nil)
		if err != nil {
			if domain.IsConflict(err) || domain.IsNotFound(err) {
				logger.Warn("skipping booking expiry", "bookingID", candidate.ID, "error", err)
				continue
			}
			return expired, err
		}
		expired = append(expired, *b)
	}
	return expired, nil
}

func (s *bookingService) GetBookingStats(ctx context.Context) (*domain.BookingStats, error) {
	counts, err := s.bookingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.bookingRepo.SumTotalAmount(ctx, domain.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}

	stats := &domain.BookingStats{
		ByStatus:          make(map[domain.BookingStatus]int64, len(domain.AllBookingStatuses)),
		TotalRevenueCents: revenue,
	}
	for _, status := range domain.AllBookingStatuses {
		stats.ByStatus[status] = counts[status]
	}
	for _, n := range counts {
		stats.TotalBookings += n
	}
	stats.ActiveBookings = counts[domain.BookingStatusActive]
	stats.CompletedBookings = counts[domain.BookingStatusCompleted]
	stats.CancelledBookings = counts[domain.BookingStatusCancelled]
	return stats, nil
}

func (s *bookingService) EstimateFuel(ctx context.Context, id string) (*utils.FuelEstimate, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.vehicleRepo.GetByID(ctx, b.VehicleID)
	if err != nil {
		return nil, err
	}
	est := utils.EstimateFuelConsumption(b.PlannedDistanceKm, v.Type, v.FuelType)
	return &est, nil
}

// transition moves the booking to target after fn succeeds, provided the
// state machine allows it from the booking's current status.
func (s *bookingService) transition(ctx context.Context, id string, target domain.BookingStatus, fn func(b *domain.Booking) error) (*domain.Booking, error) {
	return s.modify(ctx, id, func(b *domain.Booking) error {
		if !domain.CanTransition(b.Status, target) {
			return domain.NewConflictError(fmt.Sprintf("cannot move booking from %s to %s", b.Status, target))
		}
		if fn != nil {
			if err := fn(b); err != nil {
				return err
			}
		}
		b.Status = target
		return nil
	})
}

// modify runs a locked read-modify-write on one booking. The write is
// conditional on the status read, so a concurrent change surfaces as a conflict.
func (s *bookingService) modify(ctx context.Context, id string, fn func(b *domain.Booking) error) (*domain.Booking, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded := b.Status
	if err := fn(b); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Update(ctx, b, loaded); err != nil {
		if errors.Is(err, domain.ErrStaleBooking) {
			return nil, domain.WrapConflict("booking was modified concurrently, retry", err)
		}
		return nil, err
	}
	return b, nil
}

func (s *bookingService) lock(ctx context.Context, key string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			return nil, domain.WrapConflict("booking is being modified, retry", err)
		}
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return unlock, nil
}

func vehicleLockKey(vehicleID string) string {
	return "vehicle:" + vehicleID
}
