package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youruser/casecard/internal/metrics"
)

const (
	requestIDHeader = "X-Correlation-ID"
	ctxRequestID    = "casecard.request_id"
	ctxLogger       = "casecard.logger"
	ctxCardID       = "casecard.card_id"
)

// RequestContext tags each request with a correlation ID, echoed in the
// response, and a logger carrying it. One line is logged per request; failed
// requests are logged at warn level with gin's error list.
func RequestContext(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		log := base.With("request_id", id, "method", c.Request.Method, "route", metrics.Route(c))
		c.Set(ctxRequestID, id)
		c.Set(ctxLogger, log)

		start := time.Now()
		c.Next()

		attrs := []any{"status", c.Writer.Status(), "latency", time.Since(start)}
		if cardID := c.GetString(ctxCardID); cardID != "" {
			attrs = append(attrs, "card_id", cardID)
		}
		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				attrs = append(attrs, "errors", c.Errors.String())
			}
			log.Warn("request failed", attrs...)
			return
		}
		log.Info("request served", attrs...)
	}
}

func RequestID(c *gin.Context) string { return c.GetString(ctxRequestID) }

// LoggerFromContext returns the request logger, or slog.Default outside a
// request.
func LoggerFromContext(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
