package recommend

import "github.com/i474232898/geoflix/internal/common"

// hotThreshold is the temperature above which any condition maps to travel.
const hotThreshold = 30.0

// Classify maps a weather description and temperature to a category.
// Rules are checked in order and the first match wins.
func Classify(condition string, temperature float64) Category {
	switch {
	case common.ContainsAnyFold(condition, "sun") || temperature > hotThreshold:
		return CategoryTravel
	case common.ContainsAnyFold(condition, "rain"):
		return CategoryMusic
	case common.ContainsAnyFold(condition, "cloud"):
		return CategoryFood
	case common.ContainsAnyFold(condition, "snow"):
		return CategoryNews
	default:
		return CategoryDefault
	}
}
