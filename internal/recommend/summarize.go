package recommend

import "math"

// counter tallies values and remembers the order they were first seen.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// mostCommon returns the highest-count value; ties go to the value seen first.
func (c *counter) mostCommon() string {
	best, bestCount := NotApplicable, 0
	for _, v := range c.order {
		if n := c.counts[v]; n > bestCount {
			best, bestCount = v, n
		}
	}
	return best
}

func (c *counter) distribution() Distribution {
	d := make(Distribution, 0, len(c.order))
	for _, v := range c.order {
		d = append(d, ConditionCount{Condition: v, Count: c.counts[v]})
	}
	return d
}

// Summarize reduces records to dashboard statistics. An empty slice
// yields the zero state with every categorical field set to NotApplicable.
func Summarize(records []Record) Summary {
	if len(records) == 0 {
		return Summary{
			MostCommonCondition:   NotApplicable,
			MostCommonCategory:    NotApplicable,
			MostCommonCity:        NotApplicable,
			ConditionDistribution: Distribution{},
		}
	}

	conditions := newCounter()
	categories := newCounter()
	cities := newCounter()
	var sumTemp float64

	for _, r := range records {
		conditions.add(r.Condition)
		categories.add(string(r.Category))
		cities.add(r.City)
		sumTemp += r.Temperature
	}

	avg := round2(sumTemp / float64(len(records)))

	return Summary{
		Total:                 len(records),
		MostCommonCondition:   conditions.mostCommon(),
		MostCommonCategory:    categories.mostCommon(),
		MostCommonCity:        cities.mostCommon(),
		AverageTemperature:    &avg,
		ConditionDistribution: conditions.distribution(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
