package weather

import (
	"strings"
	"time"
)

// Location identifies a city whose current weather can be looked up.
// Country is optional and narrows the provider query.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// Key returns a canonical string key for logging and caching.
func (l Location) Key() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + ":" + l.Country
}

// Query renders the location the way OpenWeatherMap and WeatherAPI expect it.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Reading is a single provider's view of current conditions.
type Reading struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
	Description  string    `json:"description"`
	TemperatureC float64   `json:"temperatureC"`
}

// normalizedDescription folds case and surrounding space so that two
// providers reporting "Light rain" and "light rain" agree.
func (r Reading) normalizedDescription() string {
	return strings.ToLower(strings.TrimSpace(r.Description))
}
