package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/geoflix/internal/recommend"
	"github.com/i474232898/geoflix/internal/store"
	"github.com/i474232898/geoflix/internal/weather"
)

type brokenStore struct{}

func (brokenStore) Append(context.Context, recommend.Record) error { return errors.New("disk full") }
func (brokenStore) All(context.Context) ([]recommend.Record, error) {
	return nil, errors.New("log store is corrupt: line 3")
}
func (brokenStore) Close() error { return nil }

type stubWeather struct {
	reading weather.Reading
	err     error
}

func (s stubWeather) Current(context.Context, weather.Location) (weather.Reading, error) {
	return s.reading, s.err
}

func newTestApp(t *testing.T, svc *recommend.Service) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHome(t *testing.T) {
	app := newTestApp(t, recommend.NewService(store.NewMemoryStore()))

	code, body := do(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "GeoFlix Backend is running.", body["message"])
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"description", `{"description":"Heavy Rain","temperature":20,"city":"Lisbon"}`, "music"},
		{"condition key", `{"condition":"cloudy skies","temperature":10}`, "food"},
		{"description wins", `{"description":"light snow","condition":"sunny","temperature":-2}`, "news"},
		{"numeric string temperature", `{"description":"fog","temperature":"35"}`, "travel"},
		{"defaults", `{}`, "default"},
		{"empty body", ``, "default"},
		{"null temperature", `{"description":"fog","temperature":null}`, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, recommend.NewService(store.NewMemoryStore()))

			for _, path := range []string{"/ml-recommend", "/api/v1/recommend"} {
				code, body := do(t, app, http.MethodPost, path, tt.body)
				assert.Equal(t, http.StatusOK, code, path)
				assert.Equal(t, tt.want, body["category"], path)
				assert.NotEmpty(t, body["id"], path)
			}
		})
	}
}

func TestRecommendRejectsBadInput(t *testing.T) {
	app := newTestApp(t, recommend.NewService(store.NewMemoryStore()))

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"word temperature", `{"description":"rain","temperature":"warm"}`, "temperature must be a number"},
		{"bool temperature", `{"description":"rain","temperature":true}`, "temperature must be a number"},
		{"NaN temperature", `{"description":"rain","temperature":"NaN"}`, "temperature must be a number"},
		{"Inf temperature", `{"description":"rain","temperature":"Inf"}`, "temperature must be a number"},
		{"negative Infinity temperature", `{"description":"rain","temperature":"-Infinity"}`, "temperature must be a number"},
		{"overflowing temperature", `{"description":"rain","temperature":1e400}`, "temperature must be a number"},
		{"not an object", `[1,2]`, "request body must be a JSON object"},
		{"malformed", `{"description":`, "request body must be a JSON object"},
		{"too long", `{"description":"` + strings.Repeat("a", 300) + `"}`, "Description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, app, http.MethodPost, "/ml-recommend", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, body["error"], tt.wantMsg)
		})
	}
	// Nothing rejected reached the log, so the dashboard still renders.
	code, body := do(t, app, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["total"])
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t, recommend.NewService(store.NewMemoryStore()))

	code, body := do(t, app, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["total"])
	assert.Equal(t, "N/A", body["most_common_condition"])
	assert.Equal(t, "N/A", body["most_common_category"])
	assert.Equal(t, "N/A", body["most_common_city"])
	assert.NotContains(t, body, "average_temperature")

	for _, b := range []string{
		`{"description":"A","temperature":10,"city":"Oslo"}`,
		`{"description":"A","temperature":20,"city":"Oslo"}`,
		`{"description":"B sunny","temperature":30,"city":"Rome"}`,
	} {
		code, _ := do(t, app, http.MethodPost, "/ml-recommend", b)
		require.Equal(t, http.StatusOK, code)
	}

	code, body = do(t, app, http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3.0, body["total"])
	assert.Equal(t, "A", body["most_common_condition"])
	assert.Equal(t, "default", body["most_common_category"])
	assert.Equal(t, "Oslo", body["most_common_city"])
	assert.Equal(t, 20.0, body["average_temperature"])
	assert.Equal(t, map[string]any{"A": 2.0, "B sunny": 1.0}, body["condition_distribution"])
}

func TestStoreFailures(t *testing.T) {
	app := newTestApp(t, recommend.NewService(brokenStore{}))

	code, body := do(t, app, http.MethodPost, "/ml-recommend", `{"description":"rain"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body["error"], "disk full")

	code, body = do(t, app, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body["error"], "line 3")
}

func TestStoreErrorsHideFilesystemPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing-dir")
	app := newTestApp(t, recommend.NewService(store.NewCSVStore(filepath.Join(dir, "requests_log.csv"))))

	code, body := do(t, app, http.MethodPost, "/ml-recommend", `{"description":"rain"}`)
	assert.Equal(t, http.StatusInternalServerError, code)

	msg, ok := body["error"].(string)
	require.True(t, ok)
	assert.Contains(t, msg, "requests_log.csv")
	assert.Contains(t, msg, "no such file or directory")
	assert.NotContains(t, msg, dir)
}

func TestRecommendForLocation(t *testing.T) {
	t.Run("missing city", func(t *testing.T) {
		app := newTestApp(t, recommend.NewService(store.NewMemoryStore()))
		code, _ := do(t, app, http.MethodGet, "/api/v1/recommend/location", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("not configured", func(t *testing.T) {
		app := newTestApp(t, recommend.NewService(store.NewMemoryStore()))
		code, body := do(t, app, http.MethodGet, "/api/v1/recommend/location?city=Paris", "")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "weather lookup is not configured", body["error"])
	})

	t.Run("providers down", func(t *testing.T) {
		svc := recommend.NewService(store.NewMemoryStore(),
			recommend.WithWeather(stubWeather{err: weather.ErrUnavailable}))
		app := newTestApp(t, svc)
		code, _ := do(t, app, http.MethodGet, "/api/v1/recommend/location?city=Paris", "")
		assert.Equal(t, http.StatusBadGateway, code)
	})

	t.Run("success", func(t *testing.T) {
		svc := recommend.NewService(store.NewMemoryStore(),
			recommend.WithWeather(stubWeather{reading: weather.Reading{Description: "overcast clouds", TemperatureC: 11}}))
		app := newTestApp(t, svc)

		code, body := do(t, app, http.MethodGet, "/api/v1/recommend/location?city=Paris&country=FR", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "food", body["category"])
		assert.Equal(t, "overcast clouds", body["condition"])
		assert.Equal(t, 11.0, body["temperature"])
		assert.Equal(t, "Paris", body["city"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, recommend.NewService(store.NewMemoryStore()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "go_goroutines")
}
