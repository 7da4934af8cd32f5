package service

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/utils"
)

type routeService struct{}

// NewRouteService returns the straight-line route estimator
func NewRouteService() RouteService {
	return &routeService{}
}

func validatePoints(points ...utils.Point) error {
	for _, p := range points {
		if err := utils.ValidatePoint(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *routeService) PlanRoute(ctx context.Context, origin, destination utils.Point) (*utils.Route, error) {
	if err := validatePoints(origin, destination); err != nil {
		return nil, err
	}
	route := utils.PlanRoute(origin, destination)
	logger.Debug("route planned", "distance_km", route.DistanceKm, "duration_min", route.DurationMin, "points", len(route.RoutePoints))
	return &route, nil
}

func (s *routeService) RouteDistance(ctx context.Context, points []utils.Point) (float64, error) {
	if err := validatePoints(points...); err != nil {
		return 0, err
	}
	return utils.CalculateRouteDistance(points), nil
}

func (s *routeService) IsWithinGeofence(ctx context.Context, point, center utils.Point, radiusKm float64) (bool, error) {
	if radiusKm < 0 {
		return false, domain.NewValidationError("radius must not be negative")
	}
	if err := validatePoints(point, center); err != nil {
		return false, err
	}
	return utils.IsWithinGeofence(point, center, radiusKm), nil
}

func (s *routeService) OptimizeRoute(ctx context.Context, waypoints []utils.Point) ([]utils.Point, error) {
	if err := validatePoints(waypoints...); err != nil {
		return nil, err
	}
	return utils.OptimizeRoute(waypoints), nil
}
