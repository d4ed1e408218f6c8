// Package webapp serves the forecasting demo: an upload form and a JSON API
// that runs the configured agent on uploaded CSV files and returns plots.
package webapp

import (
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/plotting"
	"github.com/sartorproj/goseries/table"
)

//go:embed static/index.html
var indexHTML []byte

// Runner executes a pipeline on a container.
type Runner interface {
	Run(ctx context.Context, c *packet.Container) (*packet.Container, error)
}

// Upload form fields.
const (
	FieldTarget           = "target"
	FieldPastCovariates   = "past_covariates"
	FieldFutureCovariates = "future_covariates"
	FieldNValues          = "n_values"
)

// Options tunes the forecast handler.
type Options struct {
	DefaultPlotValues int
	PlotSize          plotting.Size
}

// ForecastResult holds the two rendered plots as base64 PNG. Both are nil
// when the agent returned no packets; PredictionsPlot is nil when the first
// packet has no predictions.
type ForecastResult struct {
	TargetPlot      *string `json:"target_plot"`
	PredictionsPlot *string `json:"predictions_plot"`
	Packets         int     `json:"packets"`
	PlottedValues   int     `json:"plotted_values"`
}

// Handler serves the demo routes.
type Handler struct {
	runner Runner
	opts   Options
	logger *slog.Logger
}

// NewHandler returns a handler running runner. A non-positive
// DefaultPlotValues means 100.
func NewHandler(runner Runner, opts Options, logger *slog.Logger) *Handler {
	if opts.DefaultPlotValues <= 0 {
		opts.DefaultPlotValues = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{runner: runner, opts: opts, logger: logger}
}

// Index serves the upload form.
func (h *Handler) Index(ctx context.Context, c *app.RequestContext) {
	c.Data(consts.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Ping is a basic liveness check.
func (h *Handler) Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, utils.H{"status": "ok", "message": "pong"})
}

// Liveness reports that the process is serving.
func (h *Handler) Liveness(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, utils.H{"status": "alive"})
}

// Forecast reads the uploaded CSV files into one packet, runs the agent and
// returns the target tail and the predictions as PNG plots.
func (h *Handler) Forecast(ctx context.Context, c *app.RequestContext) {
	logger := h.logger.With("request_id", RequestID(c))

	nValues, err := h.plotValues(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	p, err := h.readPacket(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	out, err := h.runner.Run(ctx, packet.NewContainer(p))
	if err != nil {
		logger.Warn("agent run failed", "error", err)
		ErrorResponse(c, err)
		return
	}

	result, err := h.render(out, nValues)
	if err != nil {
		logger.Error("render plots failed", "error", err)
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, result)
}

func (h *Handler) plotValues(c *app.RequestContext) (int, error) {
	raw := c.PostForm(FieldNValues)
	if raw == "" {
		return h.opts.DefaultPlotValues, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", errBadRequest, FieldNValues, raw)
	}
	return n, nil
}

func (h *Handler) readPacket(c *app.RequestContext) (*packet.Packet, error) {
	target, err := readUpload(c, FieldTarget, true)
	if err != nil {
		return nil, err
	}
	p := packet.New(packet.TableValue(target))
	p.Source = FieldTarget

	for _, cov := range []struct {
		field string
		slot  packet.Slot
	}{
		{FieldPastCovariates, packet.PastCovariates},
		{FieldFutureCovariates, packet.FutureCovariates},
	} {
		tbl, err := readUpload(c, cov.field, false)
		if err != nil {
			return nil, err
		}
		if err := p.Set(cov.slot, packet.TableValue(tbl)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// readUpload parses the CSV file in form field name. A missing optional
// file yields a nil table.
func readUpload(c *app.RequestContext, name string, required bool) (*table.Table, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		if required {
			return nil, fmt.Errorf("%w: %s file is required", errBadRequest, name)
		}
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	tbl, err := table.ReadCSV(f, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tbl, nil
}

func (h *Handler) render(c *packet.Container, nValues int) (*ForecastResult, error) {
	result := &ForecastResult{Packets: c.Len()}
	first := c.First()
	if first == nil {
		return result, nil
	}

	content := first.Content.Series()
	if content == nil {
		return nil, fmt.Errorf("content of packet %s is %s, not a time series", first.ID, first.Content.Kind())
	}
	tail := content.Tail(nValues)
	img, err := plotting.Render(tail, "Target", h.opts.PlotSize)
	if err != nil {
		return nil, err
	}
	result.TargetPlot = encode(img)
	result.PlottedValues = tail.Len()

	if pred := first.Predictions.Series(); pred != nil {
		img, err := plotting.Render(pred, "Predictions", h.opts.PlotSize)
		if err != nil {
			return nil, err
		}
		result.PredictionsPlot = encode(img)
	}
	return result, nil
}

func encode(img []byte) *string {
	s := base64.StdEncoding.EncodeToString(img)
	return &s
}
