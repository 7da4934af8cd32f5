package utils

import (
	"math"
	"sort"
	"strings"

	"vehicle-rental-backend/internal/domain"
)

const (
	earthRadiusKm = 6371.0
	// averageCitySpeedKmh drives the duration estimate of a planned route.
	averageCitySpeedKmh = 40.0
	// routePointSpacingKm sets roughly one interpolated point per this many km.
	routePointSpacingKm = 10.0
	minRouteIntervals   = 3

	defaultKmPerLiter     = 12.0
	defaultFuelPriceCents = 550.0
)

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Route is a straight-line estimate between two points.
type Route struct {
	Origin      Point   `json:"origin"`
	Destination Point   `json:"destination"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
	RoutePoints []Point `json:"route_points"`
}

type FuelEstimate struct {
	FuelNeeded float64 `json:"fuel_needed"`
	CostCents  int64   `json:"cost_cents"`
}

// km per liter (per kWh for electric)
var fuelEfficiency = map[domain.VehicleType]float64{
	domain.VehicleTypeSedan:       12,
	domain.VehicleTypeHatchback:   14,
	domain.VehicleTypeSUV:         10,
	domain.VehicleTypePickup:      9,
	domain.VehicleTypeCoupe:       11,
	domain.VehicleTypeConvertible: 10,
	domain.VehicleTypeWagon:       13,
	domain.VehicleTypeMinivan:     11,
}

// cents per liter (per kWh for electric)
var fuelPrices = map[domain.FuelType]float64{
	domain.FuelTypeGasoline: 550,
	domain.FuelTypeEthanol:  420,
	domain.FuelTypeFlex:     485,
	domain.FuelTypeDiesel:   480,
	domain.FuelTypeElectric: 50,
	domain.FuelTypeHybrid:   450,
	domain.FuelTypeCNG:      320,
}

// HaversineKm returns the great-circle distance in kilometres between two points in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func distance(a, b Point) float64 {
	return HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// ValidatePoint rejects coordinates outside the valid latitude/longitude ranges
func ValidatePoint(p Point) error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return domain.NewValidationError("latitude must be between -90 and 90")
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return domain.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

// PlanRoute estimates a route from origin to destination.
// The duration assumes average city speed. Route points are evenly interpolated
// along the straight line, endpoints included.
func PlanRoute(origin, destination Point) Route {
	dist := distance(origin, destination)
	intervals := max(minRouteIntervals, int(math.Floor(dist/routePointSpacingKm)))

	return Route{
		Origin:      origin,
		Destination: destination,
		DistanceKm:  dist,
		DurationMin: int(math.Round(dist / averageCitySpeedKmh * 60)),
		RoutePoints: interpolatePoints(origin, destination, intervals),
	}
}

func interpolatePoints(from, to Point, intervals int) []Point {
	points := make([]Point, 0, intervals+1)
	for i := 0; i <= intervals; i++ {
		ratio := float64(i) / float64(intervals)
		points = append(points, Point{
			Latitude:  from.Latitude + (to.Latitude-from.Latitude)*ratio,
			Longitude: from.Longitude + (to.Longitude-from.Longitude)*ratio,
		})
	}
	return points
}

// CalculateRouteDistance sums the legs between consecutive points
func CalculateRouteDistance(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += distance(points[i-1], points[i])
	}
	return total
}

// IsWithinGeofence reports whether p lies within radiusKm of center, boundary included
func IsWithinGeofence(p, center Point, radiusKm float64) bool {
	return distance(p, center) <= radiusKm
}

// OptimizeRoute keeps the first and last waypoints fixed and orders the rest by distance from the first.
func OptimizeRoute(waypoints []Point) []Point {
	if len(waypoints) <= 2 {
		return waypoints
	}
	origin := waypoints[0]
	middle := append([]Point(nil), waypoints[1:len(waypoints)-1]...)
	sort.SliceStable(middle, func(i, j int) bool {
		return distance(origin, middle[i]) < distance(origin, middle[j])
	})

	out := make([]Point, 0, len(waypoints))
	out = append(out, origin)
	out = append(out, middle...)
	return append(out, waypoints[len(waypoints)-1])
}

// EstimateFuelConsumption estimates fuel used over distanceKm and its cost.
// Unknown vehicle or fuel types fall back to a sedan on gasoline.
func EstimateFuelConsumption(distanceKm float64, vehicleType domain.VehicleType, fuelType domain.FuelType) FuelEstimate {
	efficiency, ok := fuelEfficiency[domain.VehicleType(strings.ToLower(string(vehicleType)))]
	if !ok {
		efficiency = defaultKmPerLiter
	}
	price, ok := fuelPrices[domain.FuelType(strings.ToLower(string(fuelType)))]
	if !ok {
		price = defaultFuelPriceCents
	}

	fuelNeeded := distanceKm / efficiency
	return FuelEstimate{
		FuelNeeded: fuelNeeded,
		CostCents:  int64(math.Round(fuelNeeded * price)),
	}
}
