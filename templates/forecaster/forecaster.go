// Package forecaster fits an ARIMA model to each packet's content series and
// writes a forecast into its predictions slot. Setting period switches to a
// seasonal model; setting confidence adds lower and upper bound columns.
//
// Usage example (agent configuration):
//
//	templates:
//	- template_name: Forecaster
//	  class_name: ARIMAForecaster
//	  template_input: Loader
//	  attributes:
//	    auto: true
//	    horizon: 14
//
// Weekly seasonality on daily data with 90% bounds:
//
//	  attributes:
//	    p: 1
//	    seasonal_d: 1
//	    period: 7
//	    horizon: 14
//	    confidence: 0.9
package forecaster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sartorproj/goseries/arima"
	"github.com/sartorproj/goseries/autoarima"
	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/sarima"
	"github.com/sartorproj/goseries/stats"
	"github.com/sartorproj/goseries/template"
	"github.com/sartorproj/goseries/timeseries"
)

// ClassName is the registry key of this template.
const ClassName = "ARIMAForecaster"

// diagnosticLags is the Ljung-Box lag count logged after each fit.
const diagnosticLags = 10

// Attributes configures the forecaster.
type Attributes struct {
	P         int    `mapstructure:"p"`
	D         int    `mapstructure:"d"`
	Q         int    `mapstructure:"q"`
	Auto      bool   `mapstructure:"auto"`      // Search orders instead of using the fixed ones
	MaxP      int    `mapstructure:"max_p"`     // Search bound, default 3
	MaxQ      int    `mapstructure:"max_q"`     // Search bound, default 3
	MaxD      int    `mapstructure:"max_d"`     // Search bound, default 2
	Stepwise  bool   `mapstructure:"stepwise"`  // Stepwise instead of exhaustive search
	Criterion string `mapstructure:"criterion"` // aic, aicc (default) or bic
	Horizon   int    `mapstructure:"horizon"`
	Component string `mapstructure:"component"` // Defaults to the first value column

	SeasonalP int `mapstructure:"seasonal_p"`
	SeasonalD int `mapstructure:"seasonal_d"`
	SeasonalQ int `mapstructure:"seasonal_q"`
	Period    int `mapstructure:"period"` // Seasonal period; 0 fits a non-seasonal model

	Confidence float64 `mapstructure:"confidence"` // Interval level in (0, 1); 0 disables bounds
}

func (a Attributes) seasonal() bool {
	return a.Period > 0
}

// model is the part of arima.Model and sarima.Model the forecaster uses.
type model interface {
	PredictWithInterval(steps int, confidence float64) (forecasts, lower, upper []float64, err error)
	Diagnose(lags int) *stats.LjungBoxResult
}

// fitted is a model with the facts logged about it.
type fitted struct {
	model
	order string
	aicc  float64
}

// Forecaster writes predictions for every packet holding a content series.
type Forecaster struct {
	template.Base
	attrs  Attributes
	search autoarima.Config
}

// New validates attrs and returns a Forecaster.
func New(name string, attrs Attributes, logger *slog.Logger) (*Forecaster, error) {
	if attrs.Horizon <= 0 {
		return nil, template.Invalid(name, errors.New("horizon must be positive"))
	}
	for _, o := range []int{attrs.P, attrs.D, attrs.Q, attrs.MaxP, attrs.MaxQ, attrs.MaxD,
		attrs.SeasonalP, attrs.SeasonalD, attrs.SeasonalQ, attrs.Period} {
		if o < 0 {
			return nil, template.Invalid(name, errors.New("orders must be non-negative"))
		}
	}
	if !attrs.seasonal() && attrs.SeasonalP+attrs.SeasonalD+attrs.SeasonalQ > 0 {
		return nil, template.Invalid(name, errors.New("seasonal orders require a period"))
	}
	if attrs.Confidence < 0 || attrs.Confidence >= 1 {
		return nil, template.Invalid(name, fmt.Errorf("confidence must be in (0, 1), got %g", attrs.Confidence))
	}
	f := &Forecaster{
		Base:  template.NewBase(ClassName, name, logger),
		attrs: attrs,
	}
	if attrs.Auto {
		f.search = searchConfig(attrs)
		if err := f.search.Validate(); err != nil {
			return nil, template.Invalid(name, err)
		}
	}
	return f, nil
}

// searchConfig maps the attributes onto search bounds. Unset bounds take
// the defaults; with a period the seasonal orders searched are at most 1.
func searchConfig(a Attributes) autoarima.Config {
	cfg := autoarima.DefaultConfig()
	if a.MaxP != 0 {
		cfg.MaxP = a.MaxP
	}
	if a.MaxQ != 0 {
		cfg.MaxQ = a.MaxQ
	}
	if a.MaxD != 0 {
		cfg.MaxD = a.MaxD
	}
	cfg.M = a.Period
	cfg.Stepwise = a.Stepwise
	if a.Criterion != "" {
		cfg.Criterion = a.Criterion
	}
	return cfg
}

// Factory decodes raw attributes and builds a Forecaster.
func Factory(name string, raw map[string]any, logger *slog.Logger) (template.Template, error) {
	var attrs Attributes
	if err := template.Decode(raw, &attrs); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return New(name, attrs, logger)
}

// Execute forecasts each packet in order and stops at the first failure.
func (f *Forecaster) Execute(ctx context.Context, c *packet.Container) (*packet.Container, error) {
	for _, p := range c.Packets {
		if err := ctx.Err(); err != nil {
			return c, err
		}

		content := p.Content.Series()
		if content == nil {
			f.Logger().Warn("content is not a time series, skipping forecast",
				"packet_id", p.ID, "kind", p.Content.Kind())
			continue
		}

		predictions, err := f.forecast(p, content)
		if err != nil {
			return c, fmt.Errorf("%s: packet %s: %w", f.Name(), p.ID, err)
		}
		p.Predictions = packet.SeriesValue(predictions)
	}
	return c, nil
}

func (f *Forecaster) forecast(p *packet.Packet, content *timeseries.Series) (*timeseries.Series, error) {
	if err := f.checkCovariates(p, content); err != nil {
		return nil, err
	}

	component := f.attrs.Component
	if component == "" {
		if content.Width() == 0 {
			return nil, fmt.Errorf("%w: content has no components", timeseries.ErrInvalidData)
		}
		component = content.Columns[0]
	}
	values, err := content.Component(component)
	if err != nil {
		return nil, err
	}

	timestamps, err := content.FutureTimestamps(f.attrs.Horizon)
	if err != nil {
		return nil, err
	}

	m, err := f.fit(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", timeseries.ErrInvalidData, err)
	}
	forecasts, lower, upper, err := m.PredictWithInterval(f.attrs.Horizon, f.attrs.Confidence)
	if err != nil {
		return nil, err
	}

	attrs := []any{"packet_id", p.ID, "order", m.order, "aicc", m.aicc, "horizon", f.attrs.Horizon}
	if lb := m.Diagnose(diagnosticLags); lb != nil {
		attrs = append(attrs, "ljung_box_p", lb.PValue, "white_noise", lb.WhiteNoise())
	}
	f.Logger().Debug("fitted forecast model", attrs...)

	out := &timeseries.Series{
		Timestamps: timestamps,
		Columns:    []string{component},
		Values:     [][]float64{forecasts},
		Freq:       content.Freq,
		TimeColumn: content.TimeColumn,
	}
	if f.attrs.Confidence > 0 {
		out.Columns = append(out.Columns, component+"_lower", component+"_upper")
		out.Values = append(out.Values, lower, upper)
	}
	return out, nil
}

func (f *Forecaster) fit(values []float64) (*fitted, error) {
	a := f.attrs
	switch {
	case a.Auto:
		res, err := autoarima.AutoARIMA(values, f.search)
		if err != nil {
			return nil, err
		}
		f.Logger().Debug("order search finished", "evaluated", res.ModelsEvaluated, "order", res.Order())
		return &fitted{model: res, order: res.Order(), aicc: res.AICc}, nil

	case a.seasonal():
		m := sarima.New(a.P, a.D, a.Q, a.SeasonalP, a.SeasonalD, a.SeasonalQ, a.Period)
		if err := m.Fit(values); err != nil {
			return nil, err
		}
		return &fitted{model: m, order: m.Order.String(), aicc: m.AICc}, nil

	default:
		m := arima.New(a.P, a.D, a.Q)
		if err := m.Fit(values); err != nil {
			return nil, err
		}
		return &fitted{model: m, order: m.Order.String(), aicc: m.AICc}, nil
	}
}

// checkCovariates enforces the length rules for covariate series. Covariates
// still held as tables are not checked.
func (f *Forecaster) checkCovariates(p *packet.Packet, content *timeseries.Series) error {
	if past := p.PastCovariates.Series(); past != nil && past.Len() != content.Len() {
		return fmt.Errorf("%w: past covariates have %d points, content has %d",
			timeseries.ErrInvalidData, past.Len(), content.Len())
	}
	if future := p.FutureCovariates.Series(); future != nil && future.Len() < content.Len()+f.attrs.Horizon {
		return fmt.Errorf("%w: future covariates have %d points, need at least %d",
			timeseries.ErrInvalidData, future.Len(), content.Len()+f.attrs.Horizon)
	}
	return nil
}
