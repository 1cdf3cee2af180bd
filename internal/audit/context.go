package audit

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Request ids come from logger.RequestIDFrom and the acting subject from
// auth.ClaimsFrom; only the client IP is carried here.

type clientIPKey struct{}

func WithClientIP(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIPFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(clientIPKey{}).(string); ok {
		return s
	}
	return ""
}

// ContextMiddleware puts the gin-resolved client IP on the request context.
func ContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithClientIP(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}
