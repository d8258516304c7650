package server

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/metrics"
)

// requestMiddleware records structured access logs and Prometheus request
// metrics. The route label uses the matched pattern, not the raw URL, to keep
// metric cardinality bounded.
func requestMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "other"
		}
		duration := time.Since(start)
		status := c.Writer.Status()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"remote", c.ClientIP(),
			"duration_ms", duration.Milliseconds(),
		)

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(duration.Seconds())
	}
}
