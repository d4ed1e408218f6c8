package timeseries

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/goseries/table"
)

// dateFormats are tried in order when Options.DateFormat is unset.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"2006-01",
	"2006",
}

// missingCells are parsed as NaN.
var missingCells = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"None": true,
}

type row struct {
	ts     time.Time
	values []float64
}

// FromTable builds a series from tbl using opts. Rows are sorted by time;
// duplicate timestamps are an error. Without FillMissingDates the rows must
// step exactly at the frequency.
func FromTable(tbl *table.Table, opts *Options) (*Series, error) {
	if tbl == nil {
		return nil, fmt.Errorf("%w: table is nil", ErrInvalidData)
	}
	if opts == nil {
		opts = &Options{}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	timeIdx, err := tbl.ColumnIndex(opts.TimeCol)
	if err != nil {
		return nil, fmt.Errorf("%w: time column %q", ErrMissingColumn, opts.TimeCol)
	}

	valueCols := opts.ValueCols
	if len(valueCols) == 0 {
		for _, c := range tbl.Columns {
			if c != opts.TimeCol {
				valueCols = append(valueCols, c)
			}
		}
		if len(valueCols) == 0 {
			return nil, fmt.Errorf("%w: no value columns besides %q", ErrInvalidData, opts.TimeCol)
		}
	}

	valueIdx := make([]int, len(valueCols))
	for i, c := range valueCols {
		idx, err := tbl.ColumnIndex(c)
		if err != nil {
			return nil, fmt.Errorf("%w: value column %q", ErrMissingColumn, c)
		}
		valueIdx[i] = idx
	}

	if tbl.Len() == 0 {
		return nil, fmt.Errorf("%w: table has no rows", ErrInvalidData)
	}

	rows := make([]row, tbl.Len())
	for r, record := range tbl.Rows {
		ts, err := parseTime(record[timeIdx], opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidData, r+1, err)
		}
		values := make([]float64, len(valueIdx))
		for i, idx := range valueIdx {
			v, err := parseValue(record[idx])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, column %q: %v", ErrInvalidData, r+1, valueCols[i], err)
			}
			values[i] = v
		}
		rows[r] = row{ts: ts, values: values}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ts.Before(rows[j].ts) })
	timestamps := make([]time.Time, len(rows))
	for i, r := range rows {
		if i > 0 && r.ts.Equal(rows[i-1].ts) {
			return nil, fmt.Errorf("%w: duplicate timestamp %s", ErrInvalidData, r.ts.Format(time.RFC3339))
		}
		timestamps[i] = r.ts
	}

	freq, err := opts.Frequency()
	if err != nil {
		return nil, err
	}
	if freq.IsZero() {
		freq, err = InferFrequency(timestamps, opts.FillMissingDates)
		if err != nil {
			return nil, err
		}
	}

	if opts.FillMissingDates {
		rows, err = fillMissing(rows, freq, len(valueCols))
		if err != nil {
			return nil, err
		}
	} else {
		for i := 1; i < len(rows); i++ {
			if want := freq.Next(rows[i-1].ts); !want.Equal(rows[i].ts) {
				return nil, fmt.Errorf("%w: expected %s after %s at frequency %s, got %s; set fill_missing_dates to fill gaps",
					ErrInvalidData, want.Format(time.RFC3339), rows[i-1].ts.Format(time.RFC3339), freq, rows[i].ts.Format(time.RFC3339))
			}
		}
	}

	series := &Series{
		Timestamps:       make([]time.Time, len(rows)),
		Columns:          append([]string(nil), valueCols...),
		Values:           make([][]float64, len(valueCols)),
		Freq:             freq,
		TimeColumn:       opts.TimeCol,
		StaticCovariates: copyFloatMap(opts.StaticCovariates),
		Metadata:         copyStringMap(opts.Metadata),
	}
	for c := range series.Values {
		series.Values[c] = make([]float64, len(rows))
	}
	for i, r := range rows {
		series.Timestamps[i] = r.ts
		for c, v := range r.values {
			series.Values[c][i] = v
		}
	}

	if opts.FillNAValue != nil {
		series.FillNA(*opts.FillNAValue)
	}
	return series, nil
}

// fillMissing inserts NaN rows so that rows step exactly at freq.
func fillMissing(rows []row, freq Frequency, width int) ([]row, error) {
	out := []row{rows[0]}
	for _, r := range rows[1:] {
		t := freq.Next(out[len(out)-1].ts)
		for t.Before(r.ts) {
			out = append(out, row{ts: t, values: nanRow(width)})
			t = freq.Next(t)
		}
		if !t.Equal(r.ts) {
			return nil, fmt.Errorf("%w: timestamp %s is not aligned to frequency %s", ErrInvalidData, r.ts.Format(time.RFC3339), freq)
		}
		out = append(out, r)
	}
	return out, nil
}

func nanRow(width int) []float64 {
	values := make([]float64, width)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}

func parseTime(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	if layout != "" {
		return time.Parse(layout, s)
	}
	for _, f := range dateFormats {
		if ts, err := time.Parse(f, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	if missingCells[s] {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

// ToTable converts the series back to a table whose first column is the
// time column. FromTable with the same time and value columns restores it.
func (s *Series) ToTable() *table.Table {
	timeCol := s.TimeColumn
	if timeCol == "" {
		timeCol = "time"
	}

	layout := "2006-01-02"
	for _, ts := range s.Timestamps {
		h, m, sec := ts.Clock()
		if h != 0 || m != 0 || sec != 0 || ts.Nanosecond() != 0 || ts.Location() != time.UTC {
			layout = time.RFC3339Nano
			break
		}
	}

	columns := append([]string{timeCol}, s.Columns...)
	rows := make([][]string, s.Len())
	for i, ts := range s.Timestamps {
		r := make([]string, len(columns))
		r[0] = ts.Format(layout)
		for c, comp := range s.Values {
			if math.IsNaN(comp[i]) {
				continue
			}
			r[c+1] = strconv.FormatFloat(comp[i], 'f', -1, 64)
		}
		rows[i] = r
	}
	return &table.Table{Columns: columns, Rows: rows}
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
