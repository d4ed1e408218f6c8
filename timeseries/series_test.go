package timeseries

import (
	"errors"
	"math"
	"testing"
	"time"
)

func daily(values ...float64) *Series {
	freq := Frequency{N: 1, Unit: UnitDay}
	ts := freq.Range(date(2019, 12, 31), len(values))
	s, _ := NewWithTimestamps(ts, values, freq)
	return s
}

func TestNewWithTimestamps(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := daily(values...)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}
	if s.Width() != 1 {
		t.Errorf("Expected width 1, got %d", s.Width())
	}
	if !s.Start().Equal(date(2020, 1, 1)) || !s.End().Equal(date(2020, 1, 5)) {
		t.Errorf("Unexpected range %s..%s", s.Start(), s.End())
	}

	if _, err := NewWithTimestamps([]time.Time{date(2020, 1, 1)}, nil, Frequency{}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
}

func TestSlice(t *testing.T) {
	s := daily(1, 2, 3, 4, 5)
	sliced := s.Slice(1, 4)

	expected := []float64{2, 3, 4}
	if sliced.Len() != len(expected) {
		t.Fatalf("Expected length %d, got %d", len(expected), sliced.Len())
	}

	for i, v := range sliced.Values[0] {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}
	if !sliced.Start().Equal(date(2020, 1, 2)) {
		t.Errorf("Expected slice to start 2020-01-02, got %s", sliced.Start())
	}
}

func TestTail(t *testing.T) {
	s := daily(1, 2, 3, 4, 5)

	tests := []struct {
		name     string
		n        int
		expected int
	}{
		{"within", 2, 2},
		{"all", 5, 5},
		{"beyond", 100, 5},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Tail(tt.n).Len(); got != tt.expected {
				t.Errorf("Tail(%d): expected %d, got %d", tt.n, tt.expected, got)
			}
		})
	}

	if tail := s.Tail(2); tail.Values[0][0] != 4 {
		t.Errorf("Expected tail to start at 4, got %f", tail.Values[0][0])
	}
}

func TestCopy(t *testing.T) {
	s := daily(1, 2, 3)
	s.Metadata = map[string]string{"k": "v"}
	copied := s.Copy()

	// Modify original
	s.Values[0][0] = 100
	s.Metadata["k"] = "x"

	// Copy should be unchanged
	if copied.Values[0][0] != 1 {
		t.Errorf("Copy was modified when original changed")
	}
	if copied.Metadata["k"] != "v" {
		t.Errorf("Copy metadata was modified when original changed")
	}
}

func TestComponent(t *testing.T) {
	s := daily(1, 2)
	if _, err := s.Component("0"); err != nil {
		t.Errorf("Component(\"0\"): %v", err)
	}
	if _, err := s.Component("missing"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}
}

func TestFillNA(t *testing.T) {
	s := daily(1, math.NaN(), 3, math.NaN())

	if n := s.FillNA(0); n != 2 {
		t.Errorf("Expected 2 replacements, got %d", n)
	}
	if s.Values[0][1] != 0 || s.Values[0][3] != 0 {
		t.Errorf("NaN values not replaced: %v", s.Values[0])
	}
}

func TestFutureTimestamps(t *testing.T) {
	s := daily(1, 2, 3)

	ts, err := s.FutureTimestamps(2)
	if err != nil {
		t.Fatalf("FutureTimestamps: %v", err)
	}
	if !ts[0].Equal(date(2020, 1, 4)) || !ts[1].Equal(date(2020, 1, 5)) {
		t.Errorf("Unexpected future timestamps: %v", ts)
	}

	s.Freq = Frequency{}
	if _, err := s.FutureTimestamps(1); !errors.Is(err, ErrInvalidData) {
		t.Errorf("Expected ErrInvalidData without frequency, got %v", err)
	}
}

func TestEqual(t *testing.T) {
	a := daily(1, math.NaN(), 3)
	b := daily(1, math.NaN(), 3)
	if !a.Equal(b) {
		t.Error("Expected equal series (NaN compares equal)")
	}

	c := daily(1, 2, 3)
	if a.Equal(c) {
		t.Error("Expected series with different values to differ")
	}
}

func TestDescribe(t *testing.T) {
	s := daily(2, 4, 4, 4, 5, 5, 7, 9, math.NaN())
	summary := s.Describe()

	if len(summary) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summary))
	}

	got := summary[0]
	if got.Count != 8 || got.Missing != 1 {
		t.Errorf("Expected count 8 missing 1, got %d/%d", got.Count, got.Missing)
	}
	if math.Abs(got.Mean-5) > 1e-10 {
		t.Errorf("Expected mean 5, got %f", got.Mean)
	}
	if math.Abs(got.Std-math.Sqrt(4.571428571428571)) > 1e-10 {
		t.Errorf("Expected std %f, got %f", math.Sqrt(4.571428571428571), got.Std)
	}
	if got.Min != 2 || got.Max != 9 {
		t.Errorf("Expected min 2 max 9, got %f/%f", got.Min, got.Max)
	}
}
