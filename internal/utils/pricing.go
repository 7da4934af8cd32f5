package utils

import (
	"math"
	"time"

	"vehicle-rental-backend/internal/domain"
)

const (
	// PlatformFeeRate is the platform's share of the subtotal.
	PlatformFeeRate = 0.30
	// DistanceFeeCentsPerKm is charged for each planned kilometre.
	DistanceFeeCentsPerKm = 50
	// EarlyReturnDiscountRate applies to the daily rate of each unused day.
	EarlyReturnDiscountRate = 0.15

	MinBookingLeadTime = 2 * time.Hour
	MaxBookingDuration = 30 * 24 * time.Hour

	// MinSecurityDepositCents is the floor for a vehicle's default deposit.
	MinSecurityDepositCents = 10000
)

// PricingInput carries everything the cost breakdown depends on.
type PricingInput struct {
	StartDate            time.Time
	EndDate              time.Time
	DailyRateCents       int64
	HourlyRateCents      int64
	SecurityDepositCents int64
	DistanceKm           float64
	EarlyReturn          bool
	EarlyReturnDate      *time.Time
}

// BookingCost is the full cost breakdown of a booking
type BookingCost struct {
	DurationHours            int64  `json:"duration_hours"`
	DurationDays             int64  `json:"duration_days"`
	BaseAmountCents          int64  `json:"base_amount_cents"`
	DistanceFeeCents         int64  `json:"distance_fee_cents"`
	EarlyReturnDiscountCents *int64 `json:"early_return_discount_cents,omitempty"`
	SubtotalCents            int64  `json:"subtotal_cents"`
	PlatformFeeCents         int64  `json:"platform_fee_cents"`
	LessorAmountCents        int64  `json:"lessor_amount_cents"`
	SecurityDepositCents     int64  `json:"security_deposit_cents"`
	TotalAmountCents         int64  `json:"total_amount_cents"`
}

// CalculateBookingCost computes the cost breakdown of a booking.
//
// Partial hours round up to a whole hour and partial days to a whole day. Bookings
// spanning more than one day are charged the daily rate per day, otherwise the hourly
// rate per hour. An early return is charged up to the return date, and when more than
// one full day goes unused a discount on those days is subtracted.
func CalculateBookingCost(in PricingInput) BookingCost {
	effectiveEnd := in.EndDate
	earlyReturn := in.EarlyReturn && in.EarlyReturnDate != nil
	if earlyReturn {
		effectiveEnd = *in.EarlyReturnDate
	}

	hours, days := BillableDuration(in.StartDate, effectiveEnd)

	var base int64
	if days > 1 {
		base = days * in.DailyRateCents
	} else {
		base = hours * in.HourlyRateCents
	}

	distanceFee := CalculateDistanceFee(in.DistanceKm)

	var discount *int64
	if earlyReturn {
		discount = CalculateEarlyReturnDiscount(in.StartDate, in.EndDate, effectiveEnd, in.DailyRateCents)
	}

	subtotal := base + distanceFee
	if discount != nil {
		subtotal -= *discount
	}

	platformFee, lessorAmount := SplitFees(subtotal)

	return BookingCost{
		DurationHours:            hours,
		DurationDays:             days,
		BaseAmountCents:          base,
		DistanceFeeCents:         distanceFee,
		EarlyReturnDiscountCents: discount,
		SubtotalCents:            subtotal,
		PlatformFeeCents:         platformFee,
		LessorAmountCents:        lessorAmount,
		SecurityDepositCents:     in.SecurityDepositCents,
		TotalAmountCents:         subtotal + in.SecurityDepositCents,
	}
}

// BillableDuration returns the duration in whole hours and whole days, both rounded up
func BillableDuration(start, end time.Time) (hours, days int64) {
	hours = int64(math.Ceil(end.Sub(start).Hours()))
	days = int64(math.Ceil(float64(hours) / 24))
	return hours, days
}

// CalculateDistanceFee returns the distance surcharge in cents
func CalculateDistanceFee(distanceKm float64) int64 {
	if distanceKm <= 0 {
		return 0
	}
	return int64(math.Round(distanceKm * DistanceFeeCentsPerKm))
}

// CalculateEarlyReturnDiscount returns nil unless more than one day of the booking goes unused.
// Unused days are fractional.
func CalculateEarlyReturnDiscount(start, originalEnd, actualEnd time.Time, dailyRateCents int64) *int64 {
	original := originalEnd.Sub(start)
	actual := actualEnd.Sub(start)
	unusedDays := (original - actual).Hours() / 24
	if unusedDays <= 1 {
		return nil
	}
	discount := int64(math.Round(unusedDays * float64(dailyRateCents) * EarlyReturnDiscountRate))
	return &discount
}

// SplitFees divides a subtotal between the platform and the lessor.
// The lessor amount is derived by subtraction so the two always add up to the subtotal.
func SplitFees(subtotalCents int64) (platformFeeCents, lessorAmountCents int64) {
	platformFeeCents = int64(math.Round(float64(subtotalCents) * PlatformFeeRate))
	return platformFeeCents, subtotalCents - platformFeeCents
}

// ValidateBookingDates checks the requested window against the booking rules
func ValidateBookingDates(start, end, now time.Time) error {
	if start.Before(now.Add(MinBookingLeadTime)) {
		return domain.NewValidationError("booking must start at least 2 hours from now")
	}
	if !end.After(start) {
		return domain.NewValidationError("end date must be after start date")
	}
	if end.Sub(start) > MaxBookingDuration {
		return domain.NewValidationError("maximum booking duration is 30 days")
	}
	return nil
}

// DefaultHourlyRate is used when a vehicle is listed without an hourly rate
func DefaultHourlyRate(dailyRateCents int64) int64 {
	return int64(math.Round(float64(dailyRateCents) / 8))
}

// DefaultSecurityDeposit is twice the daily rate, never below MinSecurityDepositCents
func DefaultSecurityDeposit(dailyRateCents int64) int64 {
	return max(2*dailyRateCents, MinSecurityDepositCents)
}
