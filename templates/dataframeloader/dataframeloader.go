// Package dataframeloader converts table-valued packet slots into series.
//
// Usage example (agent configuration):
//
//	templates:
//	- template_name: TimeSeriesDataframeLoader
//	  class_name: TimeSeriesDataframeLoader
//	  template_input: InputTemplate
//	  attributes:
//	    apply_to: ["content"]
//	    from_dataframe_kwargs:
//	      value_cols: "volume"
//	      time_col: "Date"
//	      fill_missing_dates: true
//	      freq: "D"
package dataframeloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/template"
	"github.com/sartorproj/goseries/timeseries"
)

// ClassName is the registry key of this template.
const ClassName = "TimeSeriesDataframeLoader"

// Attributes configures the loader.
type Attributes struct {
	ApplyTo             []string           `mapstructure:"apply_to"`              // Slots to convert
	FromDataFrameKwargs timeseries.Options `mapstructure:"from_dataframe_kwargs"` // Shared column mapping
}

// Loader converts the configured slots of every packet from table to series.
type Loader struct {
	template.Base
	slots []packet.Slot
	opts  timeseries.Options
}

// New validates attrs and returns a Loader.
func New(name string, attrs Attributes, logger *slog.Logger) (*Loader, error) {
	if len(attrs.ApplyTo) == 0 {
		return nil, template.Invalid(name, errors.New("apply_to must name at least one slot"))
	}
	slots, err := packet.ParseSlots(attrs.ApplyTo)
	if err != nil {
		return nil, template.Invalid(name, err)
	}
	if err := attrs.FromDataFrameKwargs.Validate(); err != nil {
		return nil, template.Invalid(name, err)
	}

	return &Loader{
		Base:  template.NewBase(ClassName, name, logger),
		slots: slots,
		opts:  attrs.FromDataFrameKwargs,
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

// Execute converts slots in place. Absent slots are skipped with a warning
// and slots that already hold a series are left unchanged. Any conversion
// error aborts the whole call.
func (l *Loader) Execute(ctx context.Context, c *packet.Container) (*packet.Container, error) {
	for _, p := range c.Packets {
		for _, slot := range l.slots {
			v, err := p.Get(slot)
			if err != nil {
				return c, err
			}

			switch {
			case v.IsAbsent():
				l.Logger().Warn("no data found to convert to time series",
					"slot", slot, "packet_id", p.ID)
				continue
			case v.Series() != nil:
				l.Logger().Debug("slot already holds a time series",
					"slot", slot, "packet_id", p.ID)
				continue
			}

			series, err := timeseries.FromTable(v.Table(), &l.opts)
			if err != nil {
				return c, fmt.Errorf("%s: convert %s of packet %s: %w", l.Name(), slot, p.ID, err)
			}
			if err := p.Set(slot, packet.SeriesValue(series)); err != nil {
				return c, err
			}
		}
	}
	return c, nil
}
