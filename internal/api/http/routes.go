package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/geoflix/internal/recommend"
	"github.com/i474232898/geoflix/internal/weather"
)

var validate = validator.New()

// Recommender is the part of recommend.Service the handlers use.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (recommend.Record, error)
	RecommendForLocation(ctx context.Context, loc weather.Location) (recommend.Record, error)
	Summarize(ctx context.Context) (recommend.Summary, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. The legacy
// /ml-recommend and /dashboard paths are kept next to the versioned API.
func RegisterRoutes(app *fiber.App, service Recommender) {
	h := handlers{service: service}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "GeoFlix Backend is running."})
	})
	app.Post("/ml-recommend", h.recommend)
	app.Get("/dashboard", h.dashboard)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")
	v1.Post("/recommend", h.recommend)
	v1.Get("/recommend/location", h.recommendForLocation)
	v1.Get("/dashboard", h.dashboard)
}

type handlers struct {
	service Recommender
}

func (h handlers) recommend(c *fiber.Ctx) error {
	var body recommendBody
	if err := body.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rec, err := h.service.Recommend(c.UserContext(), body.toRequest())
	if err != nil {
		return internalError(c, "failed to log request", err)
	}

	return c.JSON(fiber.Map{
		"category": rec.Category,
		"id":       rec.ID,
	})
}

func (h handlers) recommendForLocation(c *fiber.Ctx) error {
	q := locationQuery{
		City:    c.Query("city"),
		Country: c.Query("country"),
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rec, err := h.service.RecommendForLocation(c.UserContext(), q.toLocation())
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNoWeatherSource), errors.Is(err, weather.ErrNoProviders):
			return fiber.NewError(fiber.StatusServiceUnavailable, "weather lookup is not configured")
		case errors.Is(err, weather.ErrUnavailable):
			return fiber.NewError(fiber.StatusBadGateway, "no weather provider answered for requested location")
		default:
			return internalError(c, "failed to recommend for location", err)
		}
	}

	return c.JSON(fiber.Map{
		"category":    rec.Category,
		"id":          rec.ID,
		"condition":   rec.Condition,
		"temperature": rec.Temperature,
		"city":        rec.City,
	})
}

func (h handlers) dashboard(c *fiber.Ctx) error {
	summary, err := h.service.Summarize(c.UserContext())
	if err != nil {
		return internalError(c, "failed to read request log", err)
	}
	return c.JSON(summary)
}
