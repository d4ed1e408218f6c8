package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/table"
	"github.com/sartorproj/goseries/template"
	"github.com/sartorproj/goseries/templates/input"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// salesCSV writes n consecutive days starting 2020-01-01 with the day at
// index skip left out.
func salesCSV(n, skip int) string {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	var b strings.Builder
	b.WriteString("Date,Revenue\n")
	for i := 0; i < n; i++ {
		if i == skip {
			continue
		}
		fmt.Fprintf(&b, "%s,%d\n", start.AddDate(0, 0, i).Format("2006-01-02"), 100+i%7)
	}
	return b.String()
}

const pipelineYAML = `agent:
  name: forecast_agent
  description: loads a csv and forecasts it
templates:
- template_name: InputTemplate
  class_name: InputTemplate
  attributes: {}
- template_name: TimeSeriesFromCSVLoader
  class_name: TimeSeriesFromCSVLoader
  template_input: InputTemplate
  attributes:
    root_dir: %q
    assign_to: content
    loader_params:
      path_to_csv: sales.csv
      time_col: Date
      value_cols: Revenue
      fill_missing_dates: true
      freq: D
      fillna_value: 100
- template_name: Forecaster
  class_name: ARIMAForecaster
  template_input: TimeSeriesFromCSVLoader
  attributes:
    p: 1
    horizon: 7
`

func TestLoadAndRunPipeline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sales.csv", salesCSV(56, 10))
	cfgPath := writeFile(t, dir, "agent.yml", fmt.Sprintf(pipelineYAML, dir))

	a, err := Load(cfgPath, DefaultRegistry(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Name() != "forecast_agent" || a.Description() == "" {
		t.Errorf("Unexpected agent info %q / %q", a.Name(), a.Description())
	}
	expected := []string{"InputTemplate", "TimeSeriesFromCSVLoader", "Forecaster"}
	if got := a.Templates(); strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected templates %v, got %v", expected, got)
	}

	out, err := a.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("Expected 1 packet, got %d", out.Len())
	}

	p := out.First()
	content := p.Content.Series()
	if content == nil || content.Len() != 56 {
		t.Fatalf("Expected 56 filled points, got %s", p.Content.Kind())
	}
	if content.Values[0][10] != 100 {
		t.Errorf("Missing date should be filled with 100, got %f", content.Values[0][10])
	}
	pred := p.Predictions.Series()
	if pred == nil || pred.Len() != 7 {
		t.Fatalf("Expected 7 predictions, got %v", p.Predictions.Kind())
	}
	if !pred.Start().Equal(content.End().AddDate(0, 0, 1)) {
		t.Errorf("Predictions should start the day after content ends, got %v", pred.Start())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "templates:\n- template_name: a\n  class_name: InputTemplate\n"},
		{"no templates", "agent:\n  name: x\n"},
		{"duplicate", "agent:\n  name: x\ntemplates:\n- template_name: a\n  class_name: InputTemplate\n- template_name: a\n  class_name: InputTemplate\n"},
		{"forward input", "agent:\n  name: x\ntemplates:\n- template_name: a\n  class_name: InputTemplate\n  template_input: b\n- template_name: b\n  class_name: InputTemplate\n"},
		{"missing class", "agent:\n  name: x\ntemplates:\n- template_name: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "agent.yml", tt.content)
			if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestNewErrors(t *testing.T) {
	unknown := &Config{
		Agent:     Info{Name: "x"},
		Templates: []TemplateConfig{{TemplateName: "a", ClassName: "Nope"}},
	}
	if _, err := New(unknown, DefaultRegistry(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for unknown class, got %v", err)
	}

	badAttrs := &Config{
		Agent: Info{Name: "x"},
		Templates: []TemplateConfig{{
			TemplateName: "f",
			ClassName:    "ARIMAForecaster",
			Attributes:   map[string]any{"horizon": 0},
		}},
	}
	if _, err := New(badAttrs, DefaultRegistry(), nil); !errors.Is(err, template.ErrInvalidAttributes) {
		t.Errorf("Expected ErrInvalidAttributes, got %v", err)
	}
}

type countingTemplate struct {
	name  string
	calls *int
	err   error
}

func (c *countingTemplate) Name() string { return c.name }

func (c *countingTemplate) Execute(_ context.Context, ct *packet.Container) (*packet.Container, error) {
	*c.calls++
	return ct, c.err
}

func TestRunStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var before, failing, after int
	registry := Registry{
		"Before":  func(name string, _ map[string]any, _ *slog.Logger) (template.Template, error) { return &countingTemplate{name, &before, nil}, nil },
		"Failing": func(name string, _ map[string]any, _ *slog.Logger) (template.Template, error) { return &countingTemplate{name, &failing, boom}, nil },
		"After":   func(name string, _ map[string]any, _ *slog.Logger) (template.Template, error) { return &countingTemplate{name, &after, nil}, nil },
	}
	cfg := &Config{
		Agent: Info{Name: "x"},
		Templates: []TemplateConfig{
			{TemplateName: "one", ClassName: "Before"},
			{TemplateName: "two", ClassName: "Failing"},
			{TemplateName: "three", ClassName: "After"},
		},
	}

	a, err := New(cfg, registry, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = a.Run(context.Background(), packet.NewContainer())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "two") {
		t.Errorf("Error should name the failing template: %v", err)
	}
	if before != 1 || failing != 1 || after != 0 {
		t.Errorf("Unexpected call counts: %d %d %d", before, failing, after)
	}
}

func TestRunCanceled(t *testing.T) {
	cfg := &Config{
		Agent:     Info{Name: "x"},
		Templates: []TemplateConfig{{TemplateName: "in", ClassName: input.ClassName}},
	}
	a, err := New(cfg, DefaultRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Run(ctx, packet.NewContainer()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestShippedConfigs(t *testing.T) {
	for _, name := range []string{"time_series_arima.yml", "csv_loader.yml"} {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(filepath.Join("..", "configs", name), DefaultRegistry(), nil); err != nil {
				t.Fatalf("Load: %v", err)
			}
		})
	}
}

func TestShippedArimaAgentOnSampleData(t *testing.T) {
	a, err := Load(filepath.Join("..", "configs", "time_series_arima.yml"), DefaultRegistry(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tbl, err := table.ReadCSVFile(filepath.Join("..", "data", "sales.csv"), nil)
	if err != nil {
		t.Fatalf("ReadCSVFile: %v", err)
	}

	out, err := a.Run(context.Background(), packet.NewContainer(packet.New(packet.TableValue(tbl))))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	pred := out.First().Predictions.Series()
	if pred == nil || pred.Len() != 14 {
		t.Fatalf("Expected 14 predictions, got %s", out.First().Predictions.Kind())
	}
}

func TestShippedCSVLoaderAgentOnSampleData(t *testing.T) {
	// root_dir in the shipped config is relative to the repository root.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(".."); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	a, err := Load(filepath.Join("configs", "csv_loader.yml"), DefaultRegistry(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out, err := a.Run(context.Background(), packet.NewContainer())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("Expected 1 packet, got %d", out.Len())
	}
	p := out.First()
	if p.Content.Series() == nil || p.Content.Series().Len() != 120 {
		t.Fatalf("Expected 120 content rows, got %s", p.Content.Kind())
	}
	pred := p.Predictions.Series()
	if pred == nil || pred.Len() != 14 {
		t.Fatalf("Expected 14 predictions, got %s", p.Predictions.Kind())
	}
	if want := p.Content.Series().End().AddDate(0, 0, 1); !pred.Start().Equal(want) {
		t.Errorf("Expected predictions to start at %v, got %v", want, pred.Start())
	}
}

const covariatesYAML = `agent:
  name: covariates_agent
templates:
- template_name: Loader
  class_name: TimeSeriesFromCSVLoader
  attributes:
    root_dir: %q
    assign_to: content
    loader_params:
      path_to_csv: sales.csv
      time_col: Date
      value_cols: Revenue
      freq: D
      static_covariates:
        StoreID: 7
        store.size: 120.5
      metadata:
        Region: EU
`

func TestLoadConfigKeepsAttributeKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sales.csv", salesCSV(10, -1))
	cfgPath := writeFile(t, dir, "agent.yml", fmt.Sprintf(covariatesYAML, dir))

	a, err := Load(cfgPath, DefaultRegistry(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := a.Run(context.Background(), packet.NewContainer())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	s := out.First().Content.Series()
	if s.StaticCovariates["StoreID"] != 7 || s.StaticCovariates["store.size"] != 120.5 {
		t.Errorf("Unexpected static covariates %v", s.StaticCovariates)
	}
	if s.Metadata["Region"] != "EU" {
		t.Errorf("Unexpected metadata %v", s.Metadata)
	}
}
