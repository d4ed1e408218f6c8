package webapp

import (
	"log/slog"

	"github.com/cloudwego/hertz/pkg/route"
)

// Setup registers middleware and routes on engine. A nil logger falls back
// to slog.Default().
func Setup(engine *route.Engine, h *Handler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	engine.Use(Recovery(logger))
	engine.Use(RequestLogger(logger))

	engine.GET("/", h.Index)
	engine.GET("/ping", h.Ping)
	engine.GET("/health/live", h.Liveness)

	apiV1 := engine.Group("/api/v1")
	{
		apiV1.POST("/forecast", h.Forecast)
	}
}
