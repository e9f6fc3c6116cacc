package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/config"
	"github.com/weatherdash/backend/internal/delivery/http"
	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/internal/geolocation"
	"github.com/weatherdash/backend/internal/query"
	"github.com/weatherdash/backend/internal/service"
	"github.com/weatherdash/backend/pkg/logger"
)

func main() {
	// Configuration (.env, then environment)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Shared query cache
	client := query.NewClient(query.Options{
		StaleTime:  cfg.Query.StaleTime,
		GCTime:     cfg.Query.GCTime,
		Retry:      cfg.Query.Retry,
		RetryDelay: query.DefaultOptions().RetryDelay,
	}, zapLogger.Named("query"))

	// Geolocation
	locator, err := geolocation.NewLocator(&cfg.Location, zapLogger.Named("locator"))
	if err != nil {
		zapLogger.Fatal("Failed to create locator", zap.Error(err))
	}
	geo := geolocation.NewProvider(locator, cfg.Location.Timeout, zapLogger.Named("geolocation"))

	// Dependency Injection: weather source
	var weatherAPI domain.WeatherAPI
	if cfg.Weather.APIKey == "" {
		zapLogger.Warn("OPENWEATHER_API_KEY not set, serving demo data")
		weatherAPI = service.NewMockWeatherService()
	} else {
		weatherAPI = service.NewWeatherService(&cfg.Weather, zapLogger.Named("openweather"))
	}

	// Dependency Injection: Services
	dashboardSvc := service.NewDashboardService(geo, weatherAPI, client, zapLogger.Named("dashboard"))
	citySvc := service.NewCityService(weatherAPI, client, zapLogger.Named("city"))
	searchSvc := service.NewSearchService(weatherAPI, client)

	handler := http.NewHandler(dashboardSvc, citySvc, searchSvc, client, cfg.Render, zapLogger)

	app := http.NewApp(zapLogger)
	http.SetupRoutes(app, handler)

	// Mount: first location request
	dashboardSvc.Start()

	go func() {
		zapLogger.Info("Server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.String("location_provider", cfg.Location.Provider))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zapLogger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	dashboardSvc.Close()
	geo.Close()
	client.Close()
	zapLogger.Info("Server exited gracefully")
}
