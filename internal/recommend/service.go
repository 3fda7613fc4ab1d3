package recommend

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/geoflix/internal/observability"
	"github.com/i474232898/geoflix/internal/weather"
)

// ErrNoWeatherSource is returned by RecommendForLocation when the service
// was built without a weather lookup.
var ErrNoWeatherSource = errors.New("no weather source configured")

// WeatherSource looks up current conditions for a location.
type WeatherSource interface {
	Current(ctx context.Context, loc weather.Location) (weather.Reading, error)
}

// Service classifies requests, logs them to the store and summarises the log.
type Service struct {
	store     Store
	weather   WeatherSource
	metrics   *observability.Metrics
	clock     clockwork.Clock
	trackCity bool
}

// Option configures a Service.
type Option func(*Service)

// WithWeather enables RecommendForLocation.
func WithWeather(src WeatherSource) Option {
	return func(s *Service) { s.weather = src }
}

// WithMetrics records recommendation and store metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source used to stamp records.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithCityTracking toggles whether the city is logged and summarised.
func WithCityTracking(enabled bool) Option {
	return func(s *Service) { s.trackCity = enabled }
}

// NewService creates a new Service around store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		clock:     clockwork.NewRealClock(),
		trackCity: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend fills defaults, classifies the request and appends it to the log.
func (s *Service) Recommend(ctx context.Context, req Request) (Record, error) {
	rec := Record{
		ID:          uuid.NewString(),
		Condition:   DefaultCondition,
		Temperature: DefaultTemperature,
		City:        UnknownCity,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if req.Condition != nil {
		rec.Condition = *req.Condition
	}
	if req.Temperature != nil {
		rec.Temperature = *req.Temperature
	}
	if s.trackCity && req.City != nil && *req.City != "" {
		rec.City = *req.City
	}

	rec.Category = Classify(rec.Condition, rec.Temperature)

	if err := s.store.Append(ctx, rec); err != nil {
		s.storeError("append")
		return Record{}, fmt.Errorf("append record: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Recommendations.WithLabelValues(string(rec.Category)).Inc()
	}
	return rec, nil
}

// RecommendForLocation looks up the current weather for loc and runs
// Recommend with the observed description and temperature.
func (s *Service) RecommendForLocation(ctx context.Context, loc weather.Location) (Record, error) {
	if s.weather == nil {
		return Record{}, ErrNoWeatherSource
	}

	reading, err := s.weather.Current(ctx, loc)
	if err != nil {
		return Record{}, fmt.Errorf("lookup weather for %s: %w", loc.Key(), err)
	}
	log.Printf("DEBUG: %s reports %q at %.1fC", loc.Key(), reading.Description, reading.TemperatureC)

	city := loc.City
	return s.Recommend(ctx, Request{
		Condition:   &reading.Description,
		Temperature: &reading.TemperatureC,
		City:        &city,
	})
}

// Summarize reads the full log and reduces it to dashboard statistics.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		s.storeError("read")
		return Summary{}, fmt.Errorf("read log store: %w", err)
	}

	summary := Summarize(records)
	if !s.trackCity {
		summary.MostCommonCity = NotApplicable
	}
	if s.metrics != nil {
		s.metrics.LogRecords.Set(float64(summary.Total))
	}
	return summary, nil
}

func (s *Service) storeError(op string) {
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(op).Inc()
	}
}
