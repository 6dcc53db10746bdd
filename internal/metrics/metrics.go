// Package metrics holds the derived-value calculations and display
// formatting shared by the record and dashboard surfaces.
package metrics

import (
	"math"
	"strconv"
)

// HealthIndex computes the BMI-style index from weight in kilograms and
// height in centimeters, rounded to one decimal place. It returns nil when
// height is unknown or non-positive: the index is simply not computable then,
// which is not an error.
func HealthIndex(weight float64, height *float64) *float64 {
	if height == nil || *height <= 0 {
		return nil
	}
	meters := *height / 100
	v := math.Round(weight/(meters*meters)*10) / 10
	return &v
}

// FormatValue renders a metric value for display. Missing values render as a
// dash, never as zero.
func FormatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
