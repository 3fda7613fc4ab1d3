package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/geoflix/internal/api/http"
	"github.com/i474232898/geoflix/internal/config"
	"github.com/i474232898/geoflix/internal/observability"
	"github.com/i474232898/geoflix/internal/recommend"
	"github.com/i474232898/geoflix/internal/scheduler"
	"github.com/i474232898/geoflix/internal/store"
	"github.com/i474232898/geoflix/internal/weather"
	"github.com/i474232898/geoflix/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	metrics := observability.NewMetrics()

	logStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open log store: %v", err)
	}
	defer func() {
		if err := logStore.Close(); err != nil {
			log.Printf("error closing log store: %v", err)
		}
	}()
	log.Printf("INFO: using %s log store %s", cfg.StoreBackend, cfg.StorePath)

	opts := []recommend.Option{
		recommend.WithMetrics(metrics),
		recommend.WithCityTracking(cfg.TrackCity),
	}

	// Live weather lookup is only offered when at least one provider has a key.
	if provs := configuredProviders(cfg); len(provs) > 0 {
		opts = append(opts, recommend.WithWeather(weather.NewService(provs, metrics)))
		log.Printf("INFO: weather lookup enabled with %d provider(s)", len(provs))
	}

	service := recommend.NewService(logStore, opts...)

	sched := scheduler.New(cfg.SnapshotInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "geoflix",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "geoflix",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func openStore(cfg *config.AppConfig) (recommend.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendCSV:
		return store.NewCSVStore(cfg.StorePath), nil
	case config.BackendSQLite:
		return store.NewSQLiteStore(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func configuredProviders(cfg *config.AppConfig) []weather.Provider {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	return provs
}
