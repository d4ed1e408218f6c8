// Package plotting renders time series as PNG line charts.
package plotting

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/sartorproj/goseries/timeseries"
)

// ErrNoData is returned for a nil or empty series.
var ErrNoData = errors.New("nothing to plot")

// Size is the rendered image size in inches.
type Size struct {
	Width  float64
	Height float64
}

// DefaultSize is used when a dimension is not positive.
var DefaultSize = Size{Width: 8, Height: 4}

// Render draws one line per component of s, with dates on the x axis, and
// returns the PNG bytes. Missing (NaN) values leave gaps in the line.
func Render(s *timeseries.Series, title string, size Size) ([]byte, error) {
	if s == nil || s.Len() == 0 {
		return nil, ErrNoData
	}
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = s.TimeColumn
	p.X.Tick.Marker = plot.TimeTicks{Format: tickFormat(s)}
	p.Add(plotter.NewGrid())

	for i, name := range s.Columns {
		segments := segments(s, i)
		for j, pts := range segments {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("plot component %s: %w", name, err)
			}
			line.Color = plotutil.Color(i)
			line.Width = vg.Points(1.5)
			p.Add(line)
			if j == 0 {
				p.Legend.Add(name, line)
			}
		}
	}
	p.Legend.Top = true

	w, err := p.WriterTo(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("render plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render plot: %w", err)
	}
	return buf.Bytes(), nil
}

// segments splits component i into runs of non-NaN points keyed by Unix time.
func segments(s *timeseries.Series, i int) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for k, v := range s.Values[i] {
		if math.IsNaN(v) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(s.Timestamps[k].Unix()), Y: v})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func tickFormat(s *timeseries.Series) string {
	for _, t := range s.Timestamps {
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
			return "2006-01-02\n15:04"
		}
	}
	return "2006-01-02"
}
