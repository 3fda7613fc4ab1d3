package recommend

import (
	"bytes"
	"encoding/json"
	"time"
)

// Category is the content label produced by Classify.
type Category string

const (
	CategoryTravel  Category = "travel"
	CategoryMusic   Category = "music"
	CategoryFood    Category = "food"
	CategoryNews    Category = "news"
	CategoryDefault Category = "default"
)

const (
	// NotApplicable fills categorical summary fields when there is nothing to count.
	NotApplicable = "N/A"

	// UnknownCity is recorded when a request carries no city.
	UnknownCity = "Unknown"

	DefaultCondition   = "clear"
	DefaultTemperature = 25.0
)

// Record is one logged classification event.
type Record struct {
	ID          string    `json:"id,omitempty"`
	Condition   string    `json:"condition"`
	Temperature float64   `json:"temperature"`
	Category    Category  `json:"category"`
	City        string    `json:"city"`
	CreatedAt   time.Time `json:"created_at,omitzero"` // always UTC
}

// Request is an inbound classification request. Nil fields take the
// package defaults.
type Request struct {
	Condition   *string
	Temperature *float64
	City        *string
}

// ConditionCount is one entry of a condition distribution.
type ConditionCount struct {
	Condition string
	Count     int
}

// Distribution maps conditions to counts, ordered by first appearance.
// It marshals to a JSON object whose keys keep that order.
type Distribution []ConditionCount

func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Condition)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(c.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summary is the dashboard view over the log store.
type Summary struct {
	Total                 int          `json:"total"`
	MostCommonCondition   string       `json:"most_common_condition"`
	MostCommonCategory    string       `json:"most_common_category"`
	MostCommonCity        string       `json:"most_common_city"`
	AverageTemperature    *float64     `json:"average_temperature,omitempty"`
	ConditionDistribution Distribution `json:"condition_distribution"`
}
