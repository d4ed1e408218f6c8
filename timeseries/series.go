// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series is a regularly sampled, possibly multivariate time series.
// Values holds one slice per component, each aligned with Timestamps.
type Series struct {
	Timestamps       []time.Time
	Columns          []string
	Values           [][]float64
	Freq             Frequency
	TimeColumn       string
	StaticCovariates map[string]float64
	Metadata         map[string]string
}

// NewWithTimestamps creates a univariate series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64, freq Frequency) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Columns:    []string{"0"},
		Values:     [][]float64{values},
		Freq:       freq,
	}, nil
}

// Len returns the number of time steps.
func (s *Series) Len() int {
	return len(s.Timestamps)
}

// Width returns the number of components.
func (s *Series) Width() int {
	return len(s.Columns)
}

// Start returns the first timestamp.
func (s *Series) Start() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[0]
}

// End returns the last timestamp.
func (s *Series) End() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[len(s.Timestamps)-1]
}

// Component returns the values of the named component. The slice is shared.
func (s *Series) Component(name string) ([]float64, error) {
	for i, c := range s.Columns {
		if c == name {
			return s.Values[i], nil
		}
	}
	return nil, fmt.Errorf("%w: component %q", ErrMissingColumn, name)
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > s.Len() {
		end = s.Len()
	}
	if start > end {
		start = end
	}

	out := s.shallow()
	out.Timestamps = append([]time.Time(nil), s.Timestamps[start:end]...)
	out.Values = make([][]float64, len(s.Values))
	for i, v := range s.Values {
		out.Values[i] = append([]float64(nil), v[start:end]...)
	}
	return out
}

// Tail returns a copy of the last n time steps.
func (s *Series) Tail(n int) *Series {
	return s.Slice(s.Len()-n, s.Len())
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	out := s.Slice(0, s.Len())
	if s.StaticCovariates != nil {
		out.StaticCovariates = make(map[string]float64, len(s.StaticCovariates))
		for k, v := range s.StaticCovariates {
			out.StaticCovariates[k] = v
		}
	}
	if s.Metadata != nil {
		out.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// shallow copies the descriptive fields; data slices are left nil.
func (s *Series) shallow() *Series {
	return &Series{
		Columns:          append([]string(nil), s.Columns...),
		Freq:             s.Freq,
		TimeColumn:       s.TimeColumn,
		StaticCovariates: s.StaticCovariates,
		Metadata:         s.Metadata,
	}
}

// FillNA replaces NaN values in place and returns the number replaced.
func (s *Series) FillNA(value float64) int {
	n := 0
	for _, comp := range s.Values {
		for i, v := range comp {
			if math.IsNaN(v) {
				comp[i] = value
				n++
			}
		}
	}
	return n
}

// FutureTimestamps returns the next n timestamps after the series end.
func (s *Series) FutureTimestamps(n int) ([]time.Time, error) {
	if s.Freq.IsZero() {
		return nil, fmt.Errorf("%w: series has no frequency", ErrInvalidData)
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("%w: series is empty", ErrInvalidData)
	}
	return s.Freq.Range(s.End(), n), nil
}

// Equal reports whether both series share index, columns and values.
// NaN values compare equal to each other.
func (s *Series) Equal(other *Series) bool {
	if s.Len() != other.Len() || s.Width() != other.Width() || s.Freq != other.Freq {
		return false
	}
	for i, ts := range s.Timestamps {
		if !ts.Equal(other.Timestamps[i]) {
			return false
		}
	}
	for i, c := range s.Columns {
		if c != other.Columns[i] {
			return false
		}
		if !floats.Same(s.Values[i], other.Values[i]) {
			return false
		}
	}
	return true
}

// Summary describes one component.
type Summary struct {
	Column  string
	Count   int // Non-NaN observations
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	Max     float64
}

// Describe returns summary statistics per component, ignoring NaN values.
func (s *Series) Describe() []Summary {
	out := make([]Summary, len(s.Columns))
	for i, c := range s.Columns {
		valid := make([]float64, 0, len(s.Values[i]))
		for _, v := range s.Values[i] {
			if !math.IsNaN(v) {
				valid = append(valid, v)
			}
		}

		sum := Summary{
			Column:  c,
			Count:   len(valid),
			Missing: len(s.Values[i]) - len(valid),
			Mean:    math.NaN(),
			Std:     math.NaN(),
			Min:     math.NaN(),
			Max:     math.NaN(),
		}
		if len(valid) > 0 {
			sum.Mean = stat.Mean(valid, nil)
			sum.Min = floats.Min(valid)
			sum.Max = floats.Max(valid)
		}
		if len(valid) > 1 {
			sum.Std = stat.StdDev(valid, nil)
		}
		out[i] = sum
	}
	return out
}
