package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Thalanas110/CarRentalAPI/internal/audit"
	"github.com/Thalanas110/CarRentalAPI/internal/config"
	"github.com/Thalanas110/CarRentalAPI/internal/handler"
	"github.com/Thalanas110/CarRentalAPI/internal/middleware"
	"github.com/Thalanas110/CarRentalAPI/internal/repository"
	"github.com/Thalanas110/CarRentalAPI/internal/service"
	appvalidator "github.com/Thalanas110/CarRentalAPI/internal/validator"
	"github.com/Thalanas110/CarRentalAPI/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Car Rental API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB body limit
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator with the JSON field naming and custom rules
	validate := appvalidator.New()

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	carRepo := repository.NewCarRepository(pool)
	rentalRepo := repository.NewRentalRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	promoRepo := repository.NewPromoRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	eventLogRepo := repository.NewEventLogRepository(pool)

	// Services
	tokenTTL := time.Duration(cfg.JWT.TTLHours) * time.Hour
	userService := service.NewUserService(userRepo, cfg.JWT.Secret, tokenTTL)
	carService := service.NewCarService(carRepo, rentalRepo, ratingRepo)
	rentalService := service.NewRentalService(pool, rentalRepo, carRepo, userRepo, promoRepo)
	paymentService := service.NewPaymentService(pool, paymentRepo, rentalRepo)
	promoService := service.NewPromoService(promoRepo)
	ratingService := service.NewRatingService(ratingRepo, rentalRepo)

	// Audit trail
	recorder := audit.NewRecorder(eventLogRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, validate, recorder)
	carHandler := handler.NewCarHandler(carService, ratingService)
	rentalHandler := handler.NewRentalHandler(rentalService, validate, recorder)
	paymentHandler := handler.NewPaymentHandler(paymentService, validate, recorder)
	promoHandler := handler.NewPromoHandler(promoService, validate)
	ratingHandler := handler.NewRatingHandler(ratingService, validate)
	adminHandler := handler.NewAdminHandler(rentalService, paymentService, carService, userService, promoService, eventLogRepo, validate, recorder)
	healthHandler := handler.NewHealthHandler(pool)

	authmw := middleware.NewAuth(cfg.JWT.Secret)

	app.Get("/health", healthHandler.Check)

	// Public routes. The catalog is browsable anonymously; a token unlocks
	// the caller's points gate.
	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/cars", authmw.Optional, carHandler.Catalog)
	api.Get("/cars/:id", carHandler.Get)
	api.Get("/cars/:id/ratings", carHandler.Ratings)
	api.Get("/promos", promoHandler.ListActive)

	// Authenticated routes
	authed := api.Group("", authmw.Required)
	authed.Get("/auth/profile", authHandler.Profile)
	authed.Put("/auth/profile", authHandler.UpdateProfile)
	authed.Post("/rentals", rentalHandler.Create)
	authed.Get("/rentals", rentalHandler.ListMine)
	authed.Get("/rentals/:id", rentalHandler.Get)
	authed.Post("/rentals/:id/return", rentalHandler.Return)
	authed.Post("/rentals/:id/cancel", rentalHandler.Cancel)
	authed.Get("/rentals/:id/payments", paymentHandler.ListByRental)
	authed.Post("/payments", paymentHandler.Record)
	authed.Post("/promos/validate", promoHandler.Validate)
	authed.Get("/promos/eligible", promoHandler.Eligible)
	authed.Post("/ratings", ratingHandler.Create)
	authed.Get("/ratings", ratingHandler.ListMine)
	authed.Put("/ratings/:id", ratingHandler.Update)
	authed.Delete("/ratings/:id", ratingHandler.Delete)

	// Admin console
	admin := api.Group("/admin", authmw.Required, authmw.AdminOnly)
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/rentals", adminHandler.ListRentals)
	admin.Post("/rentals/:id/release-key", adminHandler.ReleaseKey)
	admin.Get("/payments/pending", adminHandler.PendingPayments)
	admin.Post("/payments/:id/confirm", adminHandler.ConfirmPayment)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/active", adminHandler.SetUserActive)
	admin.Get("/cars", adminHandler.ListCars)
	admin.Post("/cars", adminHandler.CreateCar)
	admin.Put("/cars/:id", adminHandler.UpdateCar)
	admin.Delete("/cars/:id", adminHandler.DeleteCar)
	admin.Get("/promos", adminHandler.ListPromos)
	admin.Post("/promos", adminHandler.CreatePromo)
	admin.Put("/promos/:id", adminHandler.UpdatePromo)
	admin.Get("/logs", adminHandler.ListLogs)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
