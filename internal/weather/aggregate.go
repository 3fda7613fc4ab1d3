package weather

import "time"

// MergeReadings combines provider readings into one. Temperatures are
// averaged; the description is chosen by majority, first seen on ties.
func MergeReadings(readings []Reading) Reading {
	if len(readings) == 0 {
		return Reading{Timestamp: time.Now().UTC()}
	}

	var sumTemp float64
	counts := make(map[string]int)
	first := make(map[string]string)
	var order []string
	var newestTS time.Time

	for _, r := range readings {
		sumTemp += r.TemperatureC

		key := r.normalizedDescription()
		if _, ok := counts[key]; !ok {
			order = append(order, key)
			first[key] = r.Description
		}
		counts[key]++

		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}
	}

	bestDesc, bestCount := "", 0
	for _, key := range order {
		if counts[key] > bestCount {
			bestCount = counts[key]
			bestDesc = first[key]
		}
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	merged := Reading{
		Timestamp:    newestTS,
		Description:  bestDesc,
		TemperatureC: sumTemp / float64(len(readings)),
	}
	if len(readings) == 1 {
		merged.ProviderName = readings[0].ProviderName
	} else {
		merged.ProviderName = "merged"
	}
	return merged
}
