package plotting

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sartorproj/goseries/timeseries"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func series(t *testing.T, values []float64) *timeseries.Series {
	t.Helper()
	freq, err := timeseries.ParseFrequency("D")
	if err != nil {
		t.Fatal(err)
	}
	ts := freq.Range(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), len(values))
	s, err := timeseries.NewWithTimestamps(ts, values, freq)
	if err != nil {
		t.Fatal(err)
	}
	s.Columns = []string{"Revenue"}
	s.TimeColumn = "Date"
	return s
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"simple", []float64{1, 3, 2, 5, 4}},
		{"with gaps", []float64{1, math.NaN(), 2, 3, math.NaN(), 4}},
		{"single point", []float64{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Render(series(t, tt.values), "Target", Size{Width: 4, Height: 3})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !bytes.HasPrefix(img, pngMagic) {
				t.Error("Expected PNG output")
			}
		})
	}
}

func TestRenderMultivariateDefaultSize(t *testing.T) {
	s := series(t, []float64{1, 2, 3})
	s.Columns = append(s.Columns, "Cost")
	s.Values = append(s.Values, []float64{3, 2, 1})

	img, err := Render(s, "", Size{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("Expected PNG output")
	}
}

func TestRenderNoData(t *testing.T) {
	if _, err := Render(nil, "x", DefaultSize); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
	if _, err := Render(&timeseries.Series{}, "x", DefaultSize); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestSegments(t *testing.T) {
	s := series(t, []float64{math.NaN(), 1, 2, math.NaN(), math.NaN(), 3})
	got := segments(s, 0)
	if len(got) != 2 || len(got[0]) != 2 || len(got[1]) != 1 {
		t.Fatalf("Unexpected segments %v", got)
	}
	if got[1][0].Y != 3 {
		t.Errorf("Expected last segment value 3, got %f", got[1][0].Y)
	}
}
