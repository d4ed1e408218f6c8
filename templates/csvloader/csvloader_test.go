package csvloader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/table"
	"github.com/sartorproj/goseries/template"
	"github.com/sartorproj/goseries/timeseries"
)

const salesCSV = `Date,Revenue
2020-01-03,12
2020-01-01,10
2020-01-02,11
2020-01-04,13
`

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newLoader(t *testing.T, dir string, reuse bool, assignTo string) *Loader {
	t.Helper()
	l, err := New("csv", Attributes{
		RootDir:     dir,
		ReusePacket: reuse,
		AssignTo:    assignTo,
		LoaderParams: timeseries.CSVOptions{
			PathToCSV: "sales.csv",
			Options:   timeseries.Options{TimeCol: "Date", ValueCols: []string{"Revenue"}, Freq: "D"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		rootDir  string
		path     string
		expected string
	}{
		{"with root", "/data", "x.csv", filepath.Join("/data", "x.csv")},
		{"without root", "", "x.csv", "x.csv"},
		{"nested", "/data", "sub/x.csv", filepath.Join("/data", "sub", "x.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.rootDir, tt.path); got != tt.expected {
				t.Errorf("ResolvePath(%q, %q) = %q, expected %q", tt.rootDir, tt.path, got, tt.expected)
			}
		})
	}
}

func TestNewResolvesPathOnce(t *testing.T) {
	l := newLoader(t, "/data", false, "content")
	if l.Path() != filepath.Join("/data", "sales.csv") {
		t.Errorf("Unexpected path %q", l.Path())
	}
}

func TestExecuteAppendsNewPacket(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "sales.csv", salesCSV)
	l := newLoader(t, dir, false, "content")

	c := packet.NewContainer()
	for i := 1; i <= 2; i++ {
		if _, err := l.Execute(context.Background(), c); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if c.Len() != i {
			t.Fatalf("Expected %d packets, got %d", i, c.Len())
		}
	}

	p := c.Packets[1]
	series := p.Content.Series()
	if series == nil {
		t.Fatal("Expected content to hold a series")
	}
	expected := []float64{10, 11, 12, 13}
	for i, v := range expected {
		if series.Values[0][i] != v {
			t.Errorf("Value at %d: expected %f, got %f", i, v, series.Values[0][i])
		}
	}
	for i := 1; i < series.Len(); i++ {
		if !series.Timestamps[i].After(series.Timestamps[i-1]) {
			t.Errorf("Timestamps not ascending at %d", i)
		}
	}
	if !p.PastCovariates.IsAbsent() || !p.FutureCovariates.IsAbsent() || !p.Predictions.IsAbsent() {
		t.Error("Other slots should be absent")
	}
}

func TestExecuteIgnoresAssignToForNewPacket(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "sales.csv", salesCSV)
	l := newLoader(t, dir, false, "future_covariates")

	c := packet.NewContainer()
	if _, err := l.Execute(context.Background(), c); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	p := c.First()
	if p.Content.Series() == nil {
		t.Error("New packet should carry the series as content")
	}
	if !p.FutureCovariates.IsAbsent() {
		t.Error("assign_to slot should stay absent on a new packet")
	}
}

func TestExecuteReusesFirstPacket(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "sales.csv", salesCSV)
	l := newLoader(t, dir, true, "past_covariates")

	first := packet.New(packet.TableValue(&table.Table{Columns: []string{"Date"}}))
	first.PastCovariates = packet.TableValue(&table.Table{Columns: []string{"old"}})
	second := packet.New(packet.Value{})
	c := packet.NewContainer(first, second)

	if _, err := l.Execute(context.Background(), c); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if c.Len() != 2 {
		t.Errorf("Container length should be unchanged, got %d", c.Len())
	}
	if first.PastCovariates.Series() == nil {
		t.Error("First packet's past_covariates should hold the series")
	}
	if first.Content.Table() == nil {
		t.Error("Other slots of the first packet should be untouched")
	}
	if !second.PastCovariates.IsAbsent() {
		t.Error("Only the first packet should be written")
	}
}

func TestExecuteReuseFallsBackOnEmptyContainer(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "sales.csv", salesCSV)
	l := newLoader(t, dir, true, "predictions")

	c := packet.NewContainer()
	if _, err := l.Execute(context.Background(), c); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if c.Len() != 1 || c.First().Content.Series() == nil {
		t.Error("Expected one new packet with content set")
	}
	if !c.First().Predictions.IsAbsent() {
		t.Error("predictions should stay absent on the new packet")
	}
}

func TestExecuteErrorsLeaveContainerUntouched(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"missing file", "", fs.ErrNotExist},
		{"malformed", "Date,Revenue\n2020-01-01,1\n2020-01-02\n", timeseries.ErrInvalidData},
		{"missing column", "Date,Cost\n2020-01-01,1\n", timeseries.ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != "" {
				writeCSV(t, dir, "sales.csv", tt.content)
			}
			l := newLoader(t, dir, true, "content")

			existing := packet.New(packet.Value{})
			c := packet.NewContainer(existing)
			_, err := l.Execute(context.Background(), c)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v got %v", tt.want, err)
			}
			if c.Len() != 1 || !existing.Content.IsAbsent() {
				t.Error("Container should not be mutated on error")
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	valid := timeseries.CSVOptions{PathToCSV: "x.csv", Options: timeseries.Options{TimeCol: "Date"}}

	tests := []struct {
		name  string
		attrs Attributes
	}{
		{"missing assign_to", Attributes{LoaderParams: valid}},
		{"bad assign_to", Attributes{AssignTo: "labels", LoaderParams: valid}},
		{"missing path", Attributes{AssignTo: "content", LoaderParams: timeseries.CSVOptions{Options: timeseries.Options{TimeCol: "Date"}}}},
		{"missing time col", Attributes{AssignTo: "content", LoaderParams: timeseries.CSVOptions{PathToCSV: "x.csv"}}},
		{"bad sep", Attributes{AssignTo: "content", LoaderParams: timeseries.CSVOptions{PathToCSV: "x.csv", Sep: ";;", Options: timeseries.Options{TimeCol: "Date"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("csv", tt.attrs, nil); !errors.Is(err, template.ErrInvalidAttributes) {
				t.Fatalf("Expected ErrInvalidAttributes, got %v", err)
			}
		})
	}
}

func TestFactory(t *testing.T) {
	tpl, err := Factory("csv", map[string]any{
		"root_dir":  "/data",
		"assign_to": "content",
		"loader_params": map[string]any{
			"path_to_csv": "sales_data.csv",
			"time_col":    "Date",
			"value_cols":  "Revenue",
			"freq":        "D",
		},
	}, nil)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}

	l := tpl.(*Loader)
	if l.Path() != filepath.Join("/data", "sales_data.csv") {
		t.Errorf("Unexpected path %q", l.Path())
	}
	if len(l.params.ValueCols) != 1 || l.params.ValueCols[0] != "Revenue" {
		t.Errorf("Unexpected value columns %v", l.params.ValueCols)
	}

	_, err = Factory("csv", map[string]any{
		"assign_to":     "content",
		"loader_params": map[string]any{"path_to_csv": "x.csv", "time_col": "Date", "make_copy": true},
	}, nil)
	if !errors.Is(err, template.ErrInvalidAttributes) {
		t.Errorf("Expected ErrInvalidAttributes for unknown key, got %v", err)
	}
}

func TestFactoryKeepsCovariateKeys(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "sales.csv", salesCSV)

	tpl, err := Factory("csv", map[string]any{
		"root_dir":  dir,
		"assign_to": "content",
		"loader_params": map[string]any{
			"path_to_csv":       "sales.csv",
			"time_col":          "Date",
			"static_covariates": map[string]any{"StoreID": 7, "store.size": 120.5},
			"metadata":          map[string]any{"Region": "EU"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}

	c, err := tpl.Execute(context.Background(), packet.NewContainer())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	s := c.First().Content.Series()
	if s.StaticCovariates["StoreID"] != 7 || s.StaticCovariates["store.size"] != 120.5 {
		t.Errorf("Unexpected static covariates %v", s.StaticCovariates)
	}
	if s.Metadata["Region"] != "EU" {
		t.Errorf("Unexpected metadata %v", s.Metadata)
	}
}
