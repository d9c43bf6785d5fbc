package middleware

import (
	"smartShop/pkg/metrics"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics records request counts and latencies for Prometheus. The route
// pattern (c.Path) is used instead of the raw URL so cardinality stays
// bounded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			method := c.Request().Method
			statusLabel := strconv.Itoa(status)

			metrics.HTTPRequestsTotal.WithLabelValues(method, path, statusLabel).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, path, statusLabel).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
