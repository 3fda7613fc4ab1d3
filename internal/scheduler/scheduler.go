package scheduler

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/geoflix/internal/recommend"
)

// Summarizer produces the current dashboard summary.
type Summarizer interface {
	Summarize(ctx context.Context) (recommend.Summary, error)
}

// Scheduler periodically computes and logs the dashboard summary.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Summarizer
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service Summarizer) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
	}
}

// Start schedules the snapshot job and starts the underlying scheduler.
// A zero interval disables it.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: snapshot interval is zero; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.snapshot)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) snapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, err := s.service.Summarize(ctx)
	if err != nil {
		log.Printf("scheduler: snapshot failed: %v", err)
		return
	}

	avg := "n/a"
	if summary.AverageTemperature != nil {
		avg = formatTemp(*summary.AverageTemperature)
	}
	log.Printf("scheduler: snapshot total=%d condition=%q category=%q city=%q avg_temp=%s",
		summary.Total, summary.MostCommonCondition, summary.MostCommonCategory, summary.MostCommonCity, avg)
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
