// Package qvalue holds the single-factor explanatory power (q-value) dataset
// rendered by the radar chart.
package qvalue

import (
	"fmt"
	"math"
	"strings"
)

// Bounds of a q-value.
const (
	MinValue = 0.0
	MaxValue = 1.0
)

// Factor is the label of one radar spoke.
type Factor string

// Series is one year of q-values, aligned positionally with Dataset.Factors.
type Series struct {
	Year   string    `json:"year"`
	Values []float64 `json:"values"`
}

// Closed returns the values with the first one appended so that a polygon
// drawn through them ends where it started.
func (s Series) Closed() []float64 {
	if len(s.Values) == 0 {
		return nil
	}
	out := make([]float64, 0, len(s.Values)+1)
	out = append(out, s.Values...)
	return append(out, s.Values[0])
}

// Dataset is an ordered set of factors and the yearly series scored on them.
// Series keep their declaration order, which is also the legend order.
type Dataset struct {
	Factors []Factor `json:"factors"`
	Series  []Series `json:"series"`
}

// Default returns a fresh copy of the built-in dataset.
func Default() Dataset {
	return Dataset{
		Factors: []Factor{"X1", "X2", "X3", "X4", "X5"},
		Series: []Series{
			{Year: "1982", Values: []float64{0.23, 0.21, 0.46, 0.58, 0.45}},
			{Year: "1992", Values: []float64{0.25, 0.16, 0.38, 0.56, 0.35}},
			{Year: "2002", Values: []float64{0.25, 0.24, 0.51, 0.42, 0.41}},
			{Year: "2012", Values: []float64{0.25, 0.26, 0.48, 0.64, 0.51}},
			{Year: "2022", Values: []float64{0.45, 0.34, 0.39, 0.58, 0.55}},
		},
	}
}

// Validate checks the positional alignment of every series with the factors
// and that each value is a finite q-value.
func (d Dataset) Validate() error {
	if len(d.Factors) == 0 {
		return ErrNoFactors
	}
	seenFactor := make(map[Factor]struct{}, len(d.Factors))
	for i, f := range d.Factors {
		if strings.TrimSpace(string(f)) == "" {
			return fmt.Errorf("factor %d: %w", i, ErrEmptyName)
		}
		if _, ok := seenFactor[f]; ok {
			return fmt.Errorf("factor %q: %w", f, ErrDuplicate)
		}
		seenFactor[f] = struct{}{}
	}

	if len(d.Series) == 0 {
		return ErrNoSeries
	}
	seenYear := make(map[string]struct{}, len(d.Series))
	for i, s := range d.Series {
		if strings.TrimSpace(s.Year) == "" {
			return fmt.Errorf("series %d: %w", i, ErrEmptyName)
		}
		if _, ok := seenYear[s.Year]; ok {
			return fmt.Errorf("series %q: %w", s.Year, ErrDuplicate)
		}
		seenYear[s.Year] = struct{}{}

		if len(s.Values) != len(d.Factors) {
			return fmt.Errorf("series %q has %d values, want %d: %w",
				s.Year, len(s.Values), len(d.Factors), ErrLengthMismatch)
		}
		for j, v := range s.Values {
			if math.IsNaN(v) || v < MinValue || v > MaxValue {
				return fmt.Errorf("series %q factor %s = %v: %w",
					s.Year, d.Factors[j], v, ErrValueOutOfRange)
			}
		}
	}
	return nil
}

// Years returns the series years in declaration order.
func (d Dataset) Years() []string {
	years := make([]string, len(d.Series))
	for i, s := range d.Series {
		years[i] = s.Year
	}
	return years
}

// Lookup returns the series for year.
func (d Dataset) Lookup(year string) (Series, bool) {
	for _, s := range d.Series {
		if s.Year == year {
			return s, true
		}
	}
	return Series{}, false
}

// Max returns the largest value across all series, or 0 for an empty dataset.
func (d Dataset) Max() float64 {
	maxValue := 0.0
	for _, s := range d.Series {
		for _, v := range s.Values {
			maxValue = math.Max(maxValue, v)
		}
	}
	return maxValue
}

// Labels returns the factor names as strings.
func (d Dataset) Labels() []string {
	labels := make([]string, len(d.Factors))
	for i, f := range d.Factors {
		labels[i] = string(f)
	}
	return labels
}
