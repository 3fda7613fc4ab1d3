package weather

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/i474232898/geoflix/internal/observability"
)

var (
	// ErrNoProviders is returned when the service has nothing to query.
	ErrNoProviders = errors.New("no weather providers configured")

	// ErrUnavailable is returned when every provider failed.
	ErrUnavailable = errors.New("no provider returned current weather")
)

// Service fans a lookup out to every provider and merges the answers.
type Service struct {
	providers []Provider
	metrics   *observability.Metrics
}

// NewService creates a new Service. metrics may be nil.
func NewService(providers []Provider, metrics *observability.Metrics) *Service {
	return &Service{
		providers: providers,
		metrics:   metrics,
	}
}

// Current queries all providers concurrently and merges the successful readings.
func (s *Service) Current(ctx context.Context, loc Location) (Reading, error) {
	if len(s.providers) == 0 {
		log.Printf("ERROR: No providers available to fetch weather data for %s", loc.Key())
		s.observe("error")
		return Reading{}, ErrNoProviders
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings = make([]Reading, len(s.providers))
		ok       = make([]bool, len(s.providers))
	)

	for i, p := range s.providers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				// Partial success is fine.
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), loc.Key(), err)
				return
			}

			mu.Lock()
			readings[i] = r
			ok[i] = true
			mu.Unlock()
		}()
	}

	wg.Wait()

	// Keep provider order so the merge tie-break is stable.
	var got []Reading
	for i, r := range readings {
		if ok[i] {
			got = append(got, r)
		}
	}

	if len(got) == 0 {
		s.observe("error")
		return Reading{}, ErrUnavailable
	}

	s.observe("success")
	return MergeReadings(got), nil
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.WeatherLookups.WithLabelValues(outcome).Inc()
	}
}
