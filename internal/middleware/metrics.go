package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"staybook/internal/metrics"
)

// Metrics records request count, latency and in-flight gauge. Paths are
// labelled by route template so ids do not blow up cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.StartRequest()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.FinishRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
