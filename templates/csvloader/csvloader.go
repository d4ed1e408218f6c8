// Package csvloader loads one time series from a CSV file into a packet.
//
// Usage example (agent configuration):
//
//	templates:
//	- template_name: TimeSeriesFromCSVLoader
//	  class_name: TimeSeriesFromCSVLoader
//	  template_input: InputTemplate
//	  attributes:
//	    root_dir: "/root/.cache/goseries"
//	    assign_to: "content"
//	    loader_params:
//	      path_to_csv: "sales_data.csv"
//	      time_col: "Date"
//	      value_cols: "Revenue"
//	      freq: "D"
package csvloader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/template"
	"github.com/sartorproj/goseries/timeseries"
)

// ClassName is the registry key of this template.
const ClassName = "TimeSeriesFromCSVLoader"

// Attributes configures the loader.
type Attributes struct {
	RootDir      string                `mapstructure:"root_dir"`      // Prefixed onto path_to_csv when set
	ReusePacket  bool                  `mapstructure:"reuse_packet"`  // Write into the first existing packet
	AssignTo     string                `mapstructure:"assign_to"`     // Slot written when reusing a packet
	LoaderParams timeseries.CSVOptions `mapstructure:"loader_params"` // File and column mapping
}

// Loader reads the configured file on every Execute.
type Loader struct {
	template.Base
	path   string
	slot   packet.Slot
	reuse  bool
	params timeseries.CSVOptions
}

// New validates attrs, resolves the file path and returns a Loader.
func New(name string, attrs Attributes, logger *slog.Logger) (*Loader, error) {
	slot, err := packet.ParseSlot(attrs.AssignTo)
	if err != nil {
		return nil, template.Invalid(name, err)
	}
	if err := attrs.LoaderParams.Validate(); err != nil {
		return nil, template.Invalid(name, err)
	}

	return &Loader{
		Base:   template.NewBase(ClassName, name, logger),
		path:   ResolvePath(attrs.RootDir, attrs.LoaderParams.PathToCSV),
		slot:   slot,
		reuse:  attrs.ReusePacket,
		params: attrs.LoaderParams,
	}, nil
}

// Factory decodes raw attributes and builds a Loader.
func Factory(name string, raw map[string]any, logger *slog.Logger) (template.Template, error) {
	var attrs Attributes
	if err := template.Decode(raw, &attrs); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return New(name, attrs, logger)
}

// ResolvePath joins rootDir and path when rootDir is set.
func ResolvePath(rootDir, path string) string {
	if rootDir == "" {
		return path
	}
	return filepath.Join(rootDir, path)
}

// Path returns the resolved file path.
func (l *Loader) Path() string {
	return l.path
}

// Execute loads the series, then either writes it into the configured slot
// of the first packet (reuse_packet with a non-empty container) or appends a
// new packet holding it as content. The container is untouched on error.
func (l *Loader) Execute(ctx context.Context, c *packet.Container) (*packet.Container, error) {
	series, err := timeseries.FromCSV(l.path, &l.params)
	if err != nil {
		return c, fmt.Errorf("%s: %w", l.Name(), err)
	}

	if l.reuse && c.Len() > 0 {
		first := c.First()
		if err := first.Set(l.slot, packet.SeriesValue(series)); err != nil {
			return c, err
		}
		l.Logger().Debug("loaded time series into existing packet",
			"path", l.path, "slot", l.slot, "packet_id", first.ID, "length", series.Len())
		return c, nil
	}

	// A new packet always receives the series as content, whatever assign_to says.
	p := packet.New(packet.SeriesValue(series))
	p.Source = l.path
	c.Append(p)
	l.Logger().Debug("loaded time series into new packet",
		"path", l.path, "assign_to", l.slot, "packet_id", p.ID, "length", series.Len())
	return c, nil
}
