package http

import (
	"net/http"

	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/utils"
)

type RouteHandler struct {
	svc service.RouteService
}

func NewRouteHandler(svc service.RouteService) *RouteHandler {
	return &RouteHandler{svc: svc}
}

type planRouteRequest struct {
	Origin      *utils.Point `json:"origin" validate:"required"`
	Destination *utils.Point `json:"destination" validate:"required"`
}

type pointsRequest struct {
	Points []utils.Point `json:"points" validate:"required,min=2"`
}

type geofenceRequest struct {
	Point    *utils.Point `json:"point" validate:"required"`
	Center   *utils.Point `json:"center" validate:"required"`
	RadiusKm float64      `json:"radius_km" validate:"gte=0"`
}

func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req planRouteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	route, err := h.svc.PlanRoute(r.Context(), *req.Origin, *req.Destination)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (h *RouteHandler) Distance(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	km, err := h.svc.RouteDistance(r.Context(), req.Points)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"distance_km": km})
}

func (h *RouteHandler) Geofence(w http.ResponseWriter, r *http.Request) {
	var req geofenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	inside, err := h.svc.IsWithinGeofence(r.Context(), *req.Point, *req.Center, req.RadiusKm)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"within": inside})
}

func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	points, err := h.svc.OptimizeRoute(r.Context(), req.Points)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]utils.Point{"points": points})
}
