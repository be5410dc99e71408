package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicore/config"
	"clinicore/database"
	appointmentRepo "clinicore/database/repository/appointment"
	appointmentTypeRepo "clinicore/database/repository/appointmenttype"
	providerRepo "clinicore/database/repository/provider"
	"clinicore/handlers"
	"clinicore/middleware"
	"clinicore/routes"
	"clinicore/services/scheduling"
	"clinicore/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	provRepo := providerRepo.NewMongoProviderRepo()
	typeRepo := appointmentTypeRepo.NewMongoAppointmentTypeRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()

	// services.
	lockTTL := time.Duration(config.AppConfig.BookingLockTTLMs) * time.Millisecond
	schedulingEngine := &scheduling.DefaultSchedulingEngine{
		ProviderRepo:       provRepo,
		TypeRepo:           typeRepo,
		ApptRepo:           apptRepo,
		Locker:             scheduling.NewRedisProviderLocker(utils.GetLockCacheClient(), lockTTL),
		Hours:              scheduling.NewHoursCache(0),
		GranularityMinutes: config.AppConfig.DefaultGranularityMin,
		MaxRangeDays:       config.AppConfig.MaxRangeDays,
		MaxSlotsPerDay:     config.AppConfig.MaxSlotsPerDay,
		MaxTotalSlots:      config.AppConfig.MaxTotalSlots,
	}

	schedulingHandler := handlers.NewSchedulingHandler(schedulingEngine, logger)

	// Register routes.
	routes.RegisterRoutes(router, schedulingHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
