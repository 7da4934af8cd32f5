package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusExpired   BookingStatus = "expired"
)

// AllBookingStatuses lists every status in lifecycle order.
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusActive,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusRejected,
	BookingStatusExpired,
}

// bookingTransitions maps a target status to the statuses it may be entered from.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusConfirmed: {BookingStatusPending},
	BookingStatusRejected:  {BookingStatusPending},
	BookingStatusExpired:   {BookingStatusPending},
	BookingStatusActive:    {BookingStatusConfirmed},
	BookingStatusCompleted: {BookingStatusActive},
	BookingStatusCancelled: {BookingStatusPending, BookingStatusConfirmed},
}

func (s BookingStatus) Valid() bool {
	for _, v := range AllBookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected, BookingStatusExpired:
		return true
	}
	return false
}

// CanTransition reports whether a booking in status from may move to status to.
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range bookingTransitions[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", NewValidationError("invalid booking status: " + raw)
	}
	return s, nil
}

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusProcessing    PaymentStatus = "processing"
	PaymentStatusCompleted     PaymentStatus = "completed"
	PaymentStatusFailed        PaymentStatus = "failed"
	PaymentStatusRefunded      PaymentStatus = "refunded"
	PaymentStatusPartialRefund PaymentStatus = "partial_refund"
	PaymentStatusCancelled     PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusPartialRefund, PaymentStatusCancelled:
		return true
	}
	return false
}

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", NewValidationError("invalid payment status: " + raw)
	}
	return s, nil
}

type Booking struct {
	ID        string `json:"id"`
	LesseeID  string `json:"lessee_id"`
	LessorID  string `json:"lessor_id"`
	VehicleID string `json:"vehicle_id"`

	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	ActualStartDate *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate   *time.Time `json:"actual_end_date,omitempty"`
	EarlyReturn     bool       `json:"early_return"`
	EarlyReturnDate *time.Time `json:"early_return_date,omitempty"`

	// Pricing snapshot taken at creation. Only an early return recomputes it.
	DailyRateCents           int64  `json:"daily_rate_cents"`
	HourlyRateCents          int64  `json:"hourly_rate_cents"`
	BaseAmountCents          int64  `json:"base_amount_cents"`
	DistanceFeeCents         int64  `json:"distance_fee_cents"`
	PlatformFeeCents         int64  `json:"platform_fee_cents"`
	LessorAmountCents        int64  `json:"lessor_amount_cents"`
	TotalAmountCents         int64  `json:"total_amount_cents"`
	SecurityDepositCents     int64  `json:"security_deposit_cents"`
	EarlyReturnDiscountCents *int64 `json:"early_return_discount_cents,omitempty"`

	OriginCity           string   `json:"origin_city,omitempty"`
	DestinationCity      string   `json:"destination_city,omitempty"`
	OriginLatitude       *float64 `json:"origin_latitude,omitempty"`
	OriginLongitude      *float64 `json:"origin_longitude,omitempty"`
	DestinationLatitude  *float64 `json:"destination_latitude,omitempty"`
	DestinationLongitude *float64 `json:"destination_longitude,omitempty"`
	PlannedDistanceKm    float64  `json:"planned_distance_km"`
	PlannedDurationMin   int      `json:"planned_duration_min"`
	ScheduledRoute       string   `json:"scheduled_route,omitempty"`

	StartMileage     int    `json:"start_mileage"`
	EndMileage       int    `json:"end_mileage"`
	ActualDistanceKm int    `json:"actual_distance_km"`
	EndPhotos        string `json:"end_photos,omitempty"`

	Status               BookingStatus `json:"status"`
	PaymentStatus        PaymentStatus `json:"payment_status"`
	PaymentTransactionID string        `json:"payment_transaction_id,omitempty"`
	PaymentMethod        string        `json:"payment_method,omitempty"`
	PaymentDate          *time.Time    `json:"payment_date,omitempty"`

	ReturnNotes  string `json:"return_notes,omitempty"`
	LesseeRating *int   `json:"lessee_rating,omitempty"`
	LessorRating *int   `json:"lessor_rating,omitempty"`
	LesseeReview string `json:"lessee_review,omitempty"`
	LessorReview string `json:"lessor_review,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRouteCoordinates is true only when all four route coordinates are present.
func (b *Booking) HasRouteCoordinates() bool {
	return b.OriginLatitude != nil && b.OriginLongitude != nil &&
		b.DestinationLatitude != nil && b.DestinationLongitude != nil
}

type BookingStats struct {
	TotalBookings     int64                   `json:"total_bookings"`
	ActiveBookings    int64                   `json:"active_bookings"`
	CompletedBookings int64                   `json:"completed_bookings"`
	CancelledBookings int64                   `json:"cancelled_bookings"`
	ByStatus          map[BookingStatus]int64 `json:"by_status"`
	TotalRevenueCents int64                   `json:"total_revenue_cents"`
}
