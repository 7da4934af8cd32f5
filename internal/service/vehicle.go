package service

import (
	"context"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/utils"

	"github.com/google/uuid"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo}
}

// CreateVehicle lists a vehicle. Missing hourly rate and deposit are derived from the daily rate.
func (s *vehicleService) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	logger.EnterMethod("vehicleService.CreateVehicle", "ownerID", v.OwnerID)

	if v.DailyRateCents <= 0 {
		return domain.NewValidationError("daily rate must be positive")
	}
	if v.HourlyRateCents < 0 || v.SecurityDepositCents < 0 {
		return domain.NewValidationError("rates must not be negative")
	}
	if v.Latitude != nil && v.Longitude != nil {
		if err := utils.ValidatePoint(utils.Point{Latitude: *v.Latitude, Longitude: *v.Longitude}); err != nil {
			return err
		}
	}

	v.ID = uuid.NewString()
	v.Type = domain.VehicleType(strings.ToLower(string(v.Type)))
	v.FuelType = domain.FuelType(strings.ToLower(string(v.FuelType)))
	v.LicensePlate = strings.ToUpper(strings.TrimSpace(v.LicensePlate))
	if v.HourlyRateCents == 0 {
		v.HourlyRateCents = utils.DefaultHourlyRate(v.DailyRateCents)
	}
	if v.SecurityDepositCents == 0 {
		v.SecurityDepositCents = utils.DefaultSecurityDeposit(v.DailyRateCents)
	}
	if v.Status == "" {
		v.Status = domain.VehicleStatusPending
	}
	if v.Photos == nil {
		v.Photos = []string{}
	}

	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		logger.ExitMethodWithError("vehicleService.CreateVehicle", err, "ownerID", v.OwnerID)
		return err
	}
	logger.ExitMethod("vehicleService.CreateVehicle", "vehicleID", v.ID)
	return nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) ListVehicles(ctx context.Context, city string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.vehicleRepo.ListActive(ctx, city, page, pageSize)
}

func (s *vehicleService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListByOwner(ctx, ownerID)
}
