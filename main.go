package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"hotel-booking/config"
	"hotel-booking/controllers"
	"hotel-booking/logger"
	"hotel-booking/repository"
	"hotel-booking/routes"
	"hotel-booking/services"
)

func main() {
	cfg, dotenv, err := config.Load()
	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "hotel-booking",
	})
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	if !dotenv {
		log.Info(".env not found; continuing with environment variables")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal("Database connect failed", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	log.Info("Database connection established and migrations applied")

	users := repository.NewUserRepository(db, cfg.QueryTimeout)
	rooms := repository.NewRoomRepository(db, cfg.QueryTimeout)
	bookings := repository.NewBookingRepository(db, cfg.QueryTimeout)

	authService := services.NewAuthService(users, services.AuthConfig{
		Secret:           []byte(cfg.JWTSecret),
		TokenTTL:         cfg.TokenTTL,
		BcryptCost:       cfg.BcryptCost,
		AllowAdminSignup: cfg.AllowAdminSignup,
	}, log.With("component", "auth"))
	bookingService := services.NewBookingService(bookings, rooms, users, log.With("component", "bookings"))
	roomService := services.NewRoomService(rooms, log.With("component", "rooms"))

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 2*cfg.QueryTimeout)
	if err := authService.EnsureAdmin(seedCtx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		cancelSeed()
		log.Fatal("Admin seeding failed", "error", err)
	}
	cancelSeed()

	router, err := routes.SetupRouter(
		controllers.NewAuthController(authService, log),
		controllers.NewRoomController(roomService, bookingService, log),
		controllers.NewBookingController(bookingService, log),
		authService,
		cfg.CORSOrigins,
		log,
	)
	if err != nil {
		log.Fatal("Router setup failed", "error", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", "addr", addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		log.Error("ListenAndServe failed", "error", err)
		return
	case <-quit:
		log.Info("Shutdown signal received, shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		return
	}

	log.Info("Server stopped gracefully")
}
