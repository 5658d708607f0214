package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Instrument records request count, latency and in-flight gauge by route template.
func Instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.RequestStarted()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		done(c.Request.Method, route, c.Writer.Status())
	}
}
