package grpc

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/api/grpc/interceptor"
	"vehicle-rental-backend/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// BookingServiceName is reported alongside the overall ("") health status
const BookingServiceName = "vehicle-rental.v1.Bookings"

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker keeps the gRPC health status in line with database reachability
type HealthChecker struct {
	server *health.Server
	db     Pinger
}

func NewHealthChecker(db Pinger) *HealthChecker {
	return &HealthChecker{server: health.NewServer(), db: db}
}

// NewServer builds the gRPC server exposing grpc.health.v1.Health and reflection
func NewServer(checker *HealthChecker) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(interceptor.UnaryLogging()))
	healthpb.RegisterHealthServer(s, checker.server)
	reflection.Register(s)
	return s
}

// Check pings the database once and updates the served status
func (h *HealthChecker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		logger.Warn("database ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(BookingServiceName, status)
	return status
}

// Run checks every interval until ctx is done, then reports NOT_SERVING for good
func (h *HealthChecker) Run(ctx context.Context, interval time.Duration) {
	h.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Server returns the underlying health service
func (h *HealthChecker) Server() healthpb.HealthServer {
	return h.server
}
