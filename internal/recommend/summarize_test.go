package recommend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, NotApplicable, s.MostCommonCondition)
	assert.Equal(t, NotApplicable, s.MostCommonCategory)
	assert.Equal(t, NotApplicable, s.MostCommonCity)
	assert.Nil(t, s.AverageTemperature)
	assert.Empty(t, s.ConditionDistribution)
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{Condition: "A", Temperature: 10, Category: "cat1", City: "Paris"},
		{Condition: "A", Temperature: 20, Category: "cat1", City: "Oslo"},
		{Condition: "B", Temperature: 30, Category: "cat2", City: "Oslo"},
	}

	s := Summarize(records)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, "A", s.MostCommonCondition)
	assert.Equal(t, "cat1", s.MostCommonCategory)
	assert.Equal(t, "Oslo", s.MostCommonCity)
	require.NotNil(t, s.AverageTemperature)
	assert.Equal(t, 20.0, *s.AverageTemperature)
	assert.Equal(t, Distribution{{"A", 2}, {"B", 1}}, s.ConditionDistribution)
}

func TestSummarizeTieBreaksOnFirstSeen(t *testing.T) {
	records := []Record{
		{Condition: "fog", Category: "default", City: "Lima"},
		{Condition: "rain", Category: "music", City: "Quito"},
		{Condition: "rain", Category: "music", City: "Quito"},
		{Condition: "fog", Category: "default", City: "Lima"},
	}

	s := Summarize(records)

	assert.Equal(t, "fog", s.MostCommonCondition)
	assert.Equal(t, "default", s.MostCommonCategory)
	assert.Equal(t, "Lima", s.MostCommonCity)
}

func TestSummarizeRoundsAverage(t *testing.T) {
	records := []Record{
		{Condition: "x", Temperature: 1},
		{Condition: "x", Temperature: 2},
		{Condition: "x", Temperature: 2},
	}

	s := Summarize(records)

	require.NotNil(t, s.AverageTemperature)
	assert.Equal(t, 1.67, *s.AverageTemperature)
}

func TestSummarizeIsDeterministic(t *testing.T) {
	records := []Record{
		{Condition: "b", Temperature: 3, Category: "food", City: "X"},
		{Condition: "a", Temperature: 4, Category: "news", City: "Y"},
	}

	assert.Equal(t, Summarize(records), Summarize(records))
}

func TestDistributionMarshalKeepsOrder(t *testing.T) {
	d := Distribution{{"snow", 1}, {"clear", 3}, {"Rain \"heavy\"", 2}}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"snow":1,"clear":3,"Rain \"heavy\"":2}`, string(b))

	b, err = json.Marshal(Distribution{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestSummaryJSONZeroState(t *testing.T) {
	b, err := json.Marshal(Summarize(nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"total": 0,
		"most_common_condition": "N/A",
		"most_common_category": "N/A",
		"most_common_city": "N/A",
		"condition_distribution": {}
	}`, string(b))
}
