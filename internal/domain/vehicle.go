package domain

import "time"

type VehicleType string

const (
	VehicleTypeSedan       VehicleType = "sedan"
	VehicleTypeHatchback   VehicleType = "hatchback"
	VehicleTypeSUV         VehicleType = "suv"
	VehicleTypePickup      VehicleType = "pickup"
	VehicleTypeCoupe       VehicleType = "coupe"
	VehicleTypeConvertible VehicleType = "convertible"
	VehicleTypeWagon       VehicleType = "wagon"
	VehicleTypeMinivan     VehicleType = "minivan"
)

type FuelType string

const (
	FuelTypeGasoline FuelType = "gasoline"
	FuelTypeEthanol  FuelType = "ethanol"
	FuelTypeFlex     FuelType = "flex"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeElectric FuelType = "electric"
	FuelTypeHybrid   FuelType = "hybrid"
	FuelTypeCNG      FuelType = "cng"
)

type VehicleStatus string

const (
	VehicleStatusPending          VehicleStatus = "pending"
	VehicleStatusActive           VehicleStatus = "active"
	VehicleStatusInactive         VehicleStatus = "inactive"
	VehicleStatusInspectionFailed VehicleStatus = "inspection_failed"
	VehicleStatusMaintenance      VehicleStatus = "maintenance"
	VehicleStatusRented           VehicleStatus = "rented"
)

type Vehicle struct {
	ID                   string        `json:"id"`
	OwnerID              string        `json:"owner_id"`
	Make                 string        `json:"make"`
	Model                string        `json:"model"`
	Year                 int           `json:"year"`
	LicensePlate         string        `json:"license_plate"`
	Type                 VehicleType   `json:"type"`
	FuelType             FuelType      `json:"fuel_type"`
	DailyRateCents       int64         `json:"daily_rate_cents"`
	HourlyRateCents      int64         `json:"hourly_rate_cents"`
	SecurityDepositCents int64         `json:"security_deposit_cents"`
	Status               VehicleStatus `json:"status"`
	City                 string        `json:"city"`
	State                string        `json:"state"`
	Latitude             *float64      `json:"latitude,omitempty"`
	Longitude            *float64      `json:"longitude,omitempty"`
	Photos               []string      `json:"photos"`
	IsActive             bool          `json:"is_active"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}
