package webapp

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in and out.
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns a request ID and logs each request with its status
// and latency. Health probes are not logged.
func RequestLogger(logger *slog.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		path := string(c.Path())

		requestID := string(c.Request.Header.Peek(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Response.Header.Set(RequestIDHeader, requestID)

		c.Next(ctx)

		if path == "/health/live" || path == "/ping" {
			return
		}

		status := c.Response.StatusCode()
		l := logger.With(
			"request_id", requestID,
			"method", string(c.Method()),
			"path", path,
			"client_ip", c.ClientIP(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		switch {
		case status >= 500:
			l.Error("request completed with server error")
		case status >= 400:
			l.Warn("request completed with client error")
		default:
			l.Info("request completed")
		}
	}
}

// Recovery turns a handler panic into a 500 response.
func Recovery(logger *slog.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					"request_id", RequestID(c),
					"path", string(c.Path()),
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(consts.StatusInternalServerError, Response{
					Code:    CodeInternal,
					Message: "internal server error",
				})
			}
		}()
		c.Next(ctx)
	}
}

// RequestID returns the ID assigned by RequestLogger.
func RequestID(c *app.RequestContext) string {
	return string(c.Response.Header.Peek(RequestIDHeader))
}
