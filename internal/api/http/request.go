package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/geoflix/internal/recommend"
	"github.com/i474232898/geoflix/internal/weather"
)

var (
	errBadTemperature = errors.New("temperature must be a number")
	errBadBody        = errors.New("request body must be a JSON object")
)

// temperature accepts a JSON number or a numeric string. NaN and the
// infinities are refused: they cannot be averaged or encoded.
type temperature float64

func (t *temperature) UnmarshalJSON(b []byte) error {
	var n json.Number
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errBadTemperature
		}
		n = json.Number(s)
	} else if err := json.Unmarshal(b, &n); err != nil {
		return errBadTemperature
	}

	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errBadTemperature
	}
	*t = temperature(v)
	return nil
}

// recommendBody is the classify request. Description takes precedence
// over Condition; both exist because clients have sent either.
type recommendBody struct {
	Description *string      `json:"description" validate:"omitempty,max=256"`
	Condition   *string      `json:"condition" validate:"omitempty,max=256"`
	Temperature *temperature `json:"temperature"`
	City        *string      `json:"city" validate:"omitempty,max=256"`
}

func (b *recommendBody) bind(c *fiber.Ctx) error {
	raw := bytes.TrimSpace(c.Body())
	if len(raw) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(raw, b); err != nil {
		if errors.Is(err, errBadTemperature) {
			return errBadTemperature
		}
		return errBadBody
	}
	return nil
}

func (b recommendBody) toRequest() recommend.Request {
	req := recommend.Request{City: b.City}

	switch {
	case b.Description != nil:
		req.Condition = b.Description
	case b.Condition != nil:
		req.Condition = b.Condition
	}
	if b.Temperature != nil {
		v := float64(*b.Temperature)
		req.Temperature = &v
	}
	return req
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	City    string `validate:"required,max=256"`
	Country string `validate:"omitempty,max=64"`
}

func (l locationQuery) toLocation() weather.Location {
	return weather.Location{
		City:    l.City,
		Country: l.Country,
	}
}
