package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
)

// EndpointSecurityConfig maps "METHOD /route-template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health - Public
	"GET /health": SecurityPublic,

	// Auth - Public
	"POST /api/v1/auth/register": SecurityPublic,
	"POST /api/v1/auth/login":    SecurityPublic,

	// Auth - Refresh Protected
	"POST /api/v1/auth/refresh": SecurityRefresh,

	// Vehicles - browsing is public, listing requires an account
	"GET /api/v1/vehicles":                 SecurityPublic,
	"GET /api/v1/vehicles/{id}":            SecurityPublic,
	"GET /api/v1/vehicles/owner/{ownerId}": SecurityPublic,
	"POST /api/v1/vehicles":                SecurityAccess,

	// Routes - pure estimates, Public
	"POST /api/v1/routes/plan":     SecurityPublic,
	"POST /api/v1/routes/distance": SecurityPublic,
	"POST /api/v1/routes/geofence": SecurityPublic,
	"POST /api/v1/routes/optimize": SecurityPublic,

	// Trip photos - served by key, Public
	"GET /api/v1/photos/{key}": SecurityPublic,

	// Bookings - availability is Public, everything else Access Protected
	"GET /api/v1/bookings/availability": SecurityPublic,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(method, pathTemplate string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+pathTemplate]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
