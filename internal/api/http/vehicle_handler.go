package http

import (
	"net/http"
	"strconv"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	svc service.VehicleService
}

func NewVehicleHandler(svc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{svc: svc}
}

type createVehicleRequest struct {
	Make                 string   `json:"make" validate:"required"`
	Model                string   `json:"model" validate:"required"`
	Year                 int      `json:"year" validate:"required,gte=1950,lte=2100"`
	LicensePlate         string   `json:"license_plate" validate:"required"`
	Type                 string   `json:"type" validate:"required"`
	FuelType             string   `json:"fuel_type" validate:"required"`
	DailyRateCents       int64    `json:"daily_rate_cents" validate:"gt=0"`
	HourlyRateCents      int64    `json:"hourly_rate_cents" validate:"gte=0"`
	SecurityDepositCents int64    `json:"security_deposit_cents" validate:"gte=0"`
	City                 string   `json:"city" validate:"required"`
	State                string   `json:"state"`
	Latitude             *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude            *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Photos               []string `json:"photos" validate:"omitempty,dive,url"`
}

type vehicleListResponse struct {
	Vehicles []domain.Vehicle `json:"vehicles"`
	Total    int32            `json:"total"`
	Page     int32            `json:"page"`
	PageSize int32            `json:"page_size"`
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, string(domain.UserTypeLessor), string(domain.UserTypeAdmin)) {
		return
	}
	var req createVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	v := &domain.Vehicle{
		OwnerID:              callerID(r),
		Make:                 req.Make,
		Model:                req.Model,
		Year:                 req.Year,
		LicensePlate:         req.LicensePlate,
		Type:                 domain.VehicleType(req.Type),
		FuelType:             domain.FuelType(req.FuelType),
		DailyRateCents:       req.DailyRateCents,
		HourlyRateCents:      req.HourlyRateCents,
		SecurityDepositCents: req.SecurityDepositCents,
		City:                 req.City,
		State:                req.State,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		Photos:               req.Photos,
		IsActive:             true,
	}
	if err := h.svc.CreateVehicle(r.Context(), v); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt32(q.Get("page"), 1)
	pageSize := queryInt32(q.Get("page_size"), 20)

	vehicles, total, err := h.svc.ListVehicles(r.Context(), q.Get("city"), page, pageSize)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicleListResponse{Vehicles: vehicles, Total: total, Page: page, PageSize: pageSize})
}

func (h *VehicleHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.svc.ListByOwner(r.Context(), mux.Vars(r)["ownerId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func queryInt32(raw string, def int32) int32 {
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}
