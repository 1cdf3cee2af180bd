package throttle

import (
	"context"
	"net/http"

	"telephony-log/internal/tenant"
	"telephony-log/pkg/logger"

	"github.com/gin-gonic/gin"
)

const keyPrefix = "telephony-log:inflight:"

// Key returns the counter key for a tenant.
func Key(tenantDomain string) string { return keyPrefix + tenantDomain }

// Middleware rejects a request with 429 while its tenant already has the
// maximum number of requests in flight. It must run after tenant resolution.
// Limiter errors let the request through and are logged.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := tenant.Domain(c.Request.Context())
		if domain == "" {
			c.Next()
			return
		}
		key := Key(domain)
		log := logger.FromGin(c)

		ok, err := l.Acquire(c.Request.Context(), key)
		if err != nil {
			log.Warn("inflight cap unavailable", "err", err)
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many concurrent requests for tenant"})
			return
		}
		defer func() {
			if err := l.Release(context.WithoutCancel(c.Request.Context()), key); err != nil {
				log.Warn("inflight cap release failed", "err", err)
			}
		}()

		c.Next()
	}
}
