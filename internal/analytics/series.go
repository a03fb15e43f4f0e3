// Package analytics provides summary statistics over numeric series, used
// for grade and inventory reporting.
package analytics

import "errors"

// ErrEmptySeries is returned by aggregates that are undefined on empty input.
var ErrEmptySeries = errors.New("analytics: empty series")

// Average returns the arithmetic mean of the series.
func Average(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// Max returns the largest value in the series.
func Max(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max, nil
}

// Min returns the smallest value in the series.
func Min(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min, nil
}

// Range returns the difference between the largest and smallest values.
func Range(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min, nil
}

// CountOccurrences returns how many entries equal target.
func CountOccurrences(values []float64, target float64) int {
	count := 0
	for _, v := range values {
		if v == target {
			count++
		}
	}
	return count
}

// CumulativeSum returns the running totals of the series. The result has the
// same length as the input; an empty input yields an empty slice.
func CumulativeSum(values []float64) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}
