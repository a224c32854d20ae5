package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware records request latency by matched route.
func GinMiddleware(m *BankMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
