package webapp

import (
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/sartorproj/goseries/config"
	"github.com/sartorproj/goseries/plotting"
)

// NewServer builds a hertz server for cfg with all demo routes registered.
func NewServer(cfg *config.Config, runner Runner, logger *slog.Logger) *server.Hertz {
	h := server.New(
		server.WithHostPorts(cfg.ServerAddr()),
		server.WithReadTimeout(cfg.Server.ReadTimeout),
		server.WithWriteTimeout(cfg.Server.WriteTimeout),
		server.WithMaxRequestBodySize(cfg.MaxRequestBodyBytes()),
	)

	handler := NewHandler(runner, Options{
		DefaultPlotValues: cfg.Demo.DefaultPlotValues,
		PlotSize:          plotting.Size{Width: cfg.Demo.PlotWidthIn, Height: cfg.Demo.PlotHeightIn},
	}, logger)
	Setup(h.Engine, handler, logger)
	return h
}
