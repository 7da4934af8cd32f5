package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "vehicle-rental-backend/internal/api/grpc"
	httpapi "vehicle-rental-backend/internal/api/http"
	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/lock"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository/postgres"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.SetClientErrorClassifier(httpapi.IsClientError)
	logger.Info("Starting Vehicle Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize booking lock
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.Addr != "" {
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, cfg.LockTTL())
		logger.Info("Using redis booking lock", "addr", cfg.Redis.Addr)
	} else {
		logger.Info("Using in-process booking lock")
	}

	// Initialize Photo Storage
	photos, err := storage.NewLocalStore(cfg.Storage.BaseURL, cfg.Storage.Dir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		logger.Error("Failed to initialize photo storage", "error", err)
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Services
	routeSvc := service.NewRouteService()
	bookingSvc := service.NewBookingService(store.BookingRepository, store.VehicleRepository, routeSvc, locker, time.Now)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Auth:           authSvc,
		Vehicles:       vehicleSvc,
		Bookings:       bookingSvc,
		Routes:         routeSvc,
		Photos:         photos,
		Tokens:         tokenManager,
		Health:         store,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})

	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Set up gRPC health server
	checker := grpcapi.NewHealthChecker(store)
	grpcServer := grpcapi.NewServer(checker)
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		go checker.Run(ctx, 15*time.Second)
		go func() {
			logger.Info("gRPC health server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped")
}
