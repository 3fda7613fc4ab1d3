package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

type AppConfig struct {
	Port string

	// StoreBackend selects the log store: memory, csv or sqlite.
	StoreBackend string
	// StorePath is the CSV file or SQLite database. Ignored for memory.
	StorePath string

	// TrackCity controls whether request cities are logged and summarised.
	TrackCity bool

	// SnapshotInterval is how often the dashboard summary is logged (0 = never).
	SnapshotInterval time.Duration

	// HTTPTimeout bounds outbound weather provider calls.
	HTTPTimeout time.Duration

	OpenWeatherAPIKey string
	WeatherAPIKey     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.StoreBackend = strings.ToLower(getenvDefault("STORE_BACKEND", BackendMemory))
	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendCSV:
		cfg.StorePath = getenvDefault("STORE_PATH", "requests_log.csv")
	case BackendSQLite:
		cfg.StorePath = getenvDefault("STORE_PATH", "geoflix.db")
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want memory, csv or sqlite", cfg.StoreBackend)
	}

	trackCity, err := getenvBool("TRACK_CITY", true)
	if err != nil {
		return nil, err
	}
	cfg.TrackCity = trackCity

	cfg.SnapshotInterval, err = getenvDuration("SNAPSHOT_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}

	cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
