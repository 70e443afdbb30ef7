package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"callportal-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		staffID, _ := c.Get(staffIDKey)
		candidateID, _ := c.Get("candidateId")
		companyID, _ := c.Get("companyId")
		lockOutcome := ""
		if raw, ok := c.Get("lockOutcome"); ok {
			if s, ok := raw.(string); ok {
				lockOutcome = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":   reqID,
			"method":       c.Request.Method,
			"path":         c.Request.URL.Path,
			"status":       status,
			"lock_outcome": lockOutcome,
			"duration_ms":  float64(latency.Microseconds()) / 1000.0,
			"staff_id":     staffID,
			"candidate_id": candidateID,
			"company_id":   companyID,
			"client_ip":    c.ClientIP(),
			"user_agent":   c.Request.UserAgent(),
		})
	}
}
