package http

import (
	"net/http"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createBookingRequest struct {
	VehicleID            string    `json:"vehicle_id" validate:"required"`
	LessorID             string    `json:"lessor_id"` // optional, must match the vehicle owner
	StartDate            time.Time `json:"start_date" validate:"required"`
	EndDate              time.Time `json:"end_date" validate:"required"`
	DailyRateCents       int64     `json:"daily_rate_cents" validate:"gte=0"`
	HourlyRateCents      int64     `json:"hourly_rate_cents" validate:"gte=0"`
	SecurityDepositCents int64     `json:"security_deposit_cents" validate:"gte=0"`
	OriginCity           string    `json:"origin_city"`
	DestinationCity      string    `json:"destination_city"`
	OriginLatitude       *float64  `json:"origin_latitude" validate:"omitempty,gte=-90,lte=90"`
	OriginLongitude      *float64  `json:"origin_longitude" validate:"omitempty,gte=-180,lte=180"`
	DestinationLatitude  *float64  `json:"destination_latitude" validate:"omitempty,gte=-90,lte=90"`
	DestinationLongitude *float64  `json:"destination_longitude" validate:"omitempty,gte=-180,lte=180"`
}

type updateBookingRequest struct {
	PaymentStatus        *string    `json:"payment_status"`
	PaymentTransactionID *string    `json:"payment_transaction_id"`
	PaymentMethod        *string    `json:"payment_method"`
	PaymentDate          *time.Time `json:"payment_date"`
	OriginCity           *string    `json:"origin_city"`
	DestinationCity      *string    `json:"destination_city"`
	ReturnNotes          *string    `json:"return_notes"`
	LesseeRating         *int       `json:"lessee_rating" validate:"omitempty,gte=1,lte=5"`
	LessorRating         *int       `json:"lessor_rating" validate:"omitempty,gte=1,lte=5"`
	LesseeReview         *string    `json:"lessee_review"`
	LessorReview         *string    `json:"lessor_review"`
}

// forbiddenFor names the first field the caller may not write, or returns "".
// Payment fields are written by admins only. Each party writes its own rating and review.
func (req *updateBookingRequest) forbiddenFor(r *http.Request, b *domain.Booking) string {
	claims, _ := ClaimsFromContext(r.Context())
	if claims == nil {
		return "unauthorized"
	}
	if claims.HasRole(string(domain.UserTypeAdmin)) {
		return ""
	}
	switch {
	case req.PaymentStatus != nil, req.PaymentTransactionID != nil, req.PaymentMethod != nil, req.PaymentDate != nil:
		return "payment fields are managed by the platform"
	case (req.LesseeRating != nil || req.LesseeReview != nil) && claims.UserID != b.LesseeID:
		return "only the lessee can write the lessee review"
	case (req.LessorRating != nil || req.LessorReview != nil) && claims.UserID != b.LessorID:
		return "only the lessor can write the lessor review"
	}
	return ""
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type startTripRequest struct {
	StartMileage *int `json:"start_mileage" validate:"required,gte=0"`
}

type endTripRequest struct {
	EndMileage *int     `json:"end_mileage" validate:"required,gte=0"`
	EndPhotos  []string `json:"end_photos" validate:"omitempty,dive,url"`
}

type earlyReturnRequest struct {
	EarlyReturnDate time.Time `json:"early_return_date" validate:"required"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	b, err := h.svc.Create(r.Context(), service.CreateBookingRequest{
		LesseeID:             callerID(r),
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
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookingHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, string(domain.UserTypeAdmin)) {
		return
	}
	h.writeList(w, r)(h.svc.FindAll(r.Context()))
}

func (h *BookingHandler) FindByLessee(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.selfOrAdmin(w, r, id) {
		return
	}
	h.writeList(w, r)(h.svc.FindByLessee(r.Context(), id))
}

func (h *BookingHandler) FindByLessor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.selfOrAdmin(w, r, id) {
		return
	}
	h.writeList(w, r)(h.svc.FindByLessor(r.Context(), id))
}

func (h *BookingHandler) FindByVehicle(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r)(h.svc.FindByVehicle(r.Context(), mux.Vars(r)["id"]))
}

func (h *BookingHandler) writeList(w http.ResponseWriter, r *http.Request) func([]domain.Booking, error) {
	return func(bookings []domain.Booking, err error) {
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if bookings == nil {
			bookings = []domain.Booking{}
		}
		writeJSON(w, http.StatusOK, bookings)
	}
}

func (h *BookingHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadForParty(w, r, true, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadForParty(w, r, true, true)
	if !ok {
		return
	}
	var req updateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if msg := req.forbiddenFor(r, b); msg != "" {
		writeError(w, http.StatusForbidden, msg)
		return
	}
	patch := service.BookingPatch{
		PaymentTransactionID: req.PaymentTransactionID,
		PaymentMethod:        req.PaymentMethod,
		PaymentDate:          req.PaymentDate,
		OriginCity:           req.OriginCity,
		DestinationCity:      req.DestinationCity,
		ReturnNotes:          req.ReturnNotes,
		LesseeRating:         req.LesseeRating,
		LessorRating:         req.LessorRating,
		LesseeReview:         req.LesseeReview,
		LessorReview:         req.LessorReview,
	}
	if req.PaymentStatus != nil {
		status, err := domain.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		patch.PaymentStatus = &status
	}
	b, err := h.svc.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, string(domain.UserTypeAdmin)) {
		return
	}
	if err := h.svc.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vehicleID := q.Get("vehicle_id")
	if vehicleID == "" {
		writeError(w, http.StatusBadRequest, "vehicle_id is required")
		return
	}
	start, err := time.Parse(time.RFC3339, q.Get("start_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be an RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be an RFC 3339 timestamp")
		return
	}

	available, err := h.svc.CheckVehicleAvailability(r.Context(), vehicleID, start, end)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (h *BookingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, string(domain.UserTypeAdmin)) {
		return
	}
	stats, err := h.svc.GetBookingStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadForParty(w, r, false, true); !ok {
		return
	}
	h.writeBooking(w, r)(h.svc.ConfirmBooking(r.Context(), mux.Vars(r)["id"]))
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadForParty(w, r, false, true); !ok {
		return
	}
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeBooking(w, r)(h.svc.RejectBooking(r.Context(), mux.Vars(r)["id"], req.Reason))
}

func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadForParty(w, r, true, true); !ok {
		return
	}
	var req startTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeBooking(w, r)(h.svc.StartTrip(r.Context(), mux.Vars(r)["id"], *req.StartMileage))
}

func (h *BookingHandler) End(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadForParty(w, r, true, true); !ok {
		return
	}
	var req endTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeBooking(w, r)(h.svc.EndTrip(r.Context(), mux.Vars(r)["id"], *req.EndMileage, req.EndPhotos))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadForParty(w, r, true, true); !ok {
		return
	}
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeBooking(w, r)(h.svc.CancelBooking(r.Context(), mux.Vars(r)["id"], req.Reason))
}

func (h *BookingHandler) EarlyReturn(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadForParty(w, r, true, true); !ok {
		return
	}
	var req earlyReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeBooking(w, r)(h.svc.ProcessEarlyReturn(r.Context(), mux.Vars(r)["id"], req.EarlyReturnDate))
}

func (h *BookingHandler) FuelEstimate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadForParty(w, r, true, true); !ok {
		return
	}
	est, err := h.svc.EstimateFuel(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (h *BookingHandler) writeBooking(w http.ResponseWriter, r *http.Request) func(*domain.Booking, error) {
	return func(b *domain.Booking, err error) {
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func (h *BookingHandler) loadForParty(w http.ResponseWriter, r *http.Request, lessee, lessor bool) (*domain.Booking, bool) {
	return loadBookingForParty(h.svc, w, r, lessee, lessor)
}

// loadBookingForParty fetches the booking named in the path and checks the caller is
// its lessee or lessor, as allowed. Admins pass every check.
func loadBookingForParty(svc service.BookingService, w http.ResponseWriter, r *http.Request, lessee, lessor bool) (*domain.Booking, bool) {
	b, err := svc.FindOne(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	if claims.HasRole(string(domain.UserTypeAdmin)) ||
		(lessee && claims.UserID == b.LesseeID) ||
		(lessor && claims.UserID == b.LessorID) {
		return b, true
	}
	writeError(w, http.StatusForbidden, "not a party to this booking")
	return nil, false
}

func (h *BookingHandler) selfOrAdmin(w http.ResponseWriter, r *http.Request, userID string) bool {
	claims, ok := ClaimsFromContext(r.Context())
	if ok && (claims.UserID == userID || claims.HasRole(string(domain.UserTypeAdmin))) {
		return true
	}
	writeError(w, http.StatusForbidden, "insufficient role")
	return false
}
