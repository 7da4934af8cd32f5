package http

import (
	"net/http"

	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/storage"

	"github.com/gorilla/mux"
)

// Dependencies are the services the REST API serves
type Dependencies struct {
	Auth     service.AuthService
	Vehicles service.VehicleService
	Bookings service.BookingService
	Routes   service.RouteService
	Photos   storage.PhotoStore
	Tokens   security.TokenManager
	Health   Pinger
	// MaxUploadBytes caps trip photo request bodies
	MaxUploadBytes int64
}

// NewRouter registers every endpoint under /api/v1 plus /health
func NewRouter(deps Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, LoggingMiddleware, AuthMiddleware(deps.Tokens))

	router.Handle("/health", NewHealthHandler(deps.Health)).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	auth := NewAuthHandler(deps.Auth)
	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", auth.Refresh).Methods(http.MethodPost)

	vehicles := NewVehicleHandler(deps.Vehicles)
	api.HandleFunc("/vehicles", vehicles.Create).Methods(http.MethodPost)
	api.HandleFunc("/vehicles", vehicles.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/owner/{ownerId}", vehicles.ListByOwner).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", vehicles.Get).Methods(http.MethodGet)

	routes := NewRouteHandler(deps.Routes)
	api.HandleFunc("/routes/plan", routes.Plan).Methods(http.MethodPost)
	api.HandleFunc("/routes/distance", routes.Distance).Methods(http.MethodPost)
	api.HandleFunc("/routes/geofence", routes.Geofence).Methods(http.MethodPost)
	api.HandleFunc("/routes/optimize", routes.Optimize).Methods(http.MethodPost)

	// static paths first so they are not captured by {id}
	bookings := NewBookingHandler(deps.Bookings)
	api.HandleFunc("/bookings", bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookings.FindAll).Methods(http.MethodGet)
	api.HandleFunc("/bookings/stats", bookings.Stats).Methods(http.MethodGet)
	api.HandleFunc("/bookings/availability", bookings.Availability).Methods(http.MethodGet)
	api.HandleFunc("/bookings/lessee/{id}", bookings.FindByLessee).Methods(http.MethodGet)
	api.HandleFunc("/bookings/lessor/{id}", bookings.FindByLessor).Methods(http.MethodGet)
	api.HandleFunc("/bookings/vehicle/{id}", bookings.FindByVehicle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", bookings.FindOne).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", bookings.Update).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{id}", bookings.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{id}/confirm", bookings.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/reject", bookings.Reject).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/start", bookings.Start).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/end", bookings.End).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/cancel", bookings.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/early-return", bookings.EarlyReturn).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/fuel-estimate", bookings.FuelEstimate).Methods(http.MethodGet)

	if deps.Photos != nil {
		photos := NewPhotoHandler(deps.Photos, deps.Bookings, deps.MaxUploadBytes)
		api.HandleFunc("/bookings/{id}/photos", photos.Upload).Methods(http.MethodPost)
		api.HandleFunc("/photos/{key}", photos.Download).Methods(http.MethodGet)
	}

	return router
}
