package tenant

import (
	"net/http"
	"strings"
	"time"

	"telephony-log/internal/auth"
	"telephony-log/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TokenVerifier verifies bearer tokens carrying a tenant claim.
type TokenVerifier interface {
	Verify(token string, now time.Time) (auth.Claims, error)
}

// Resolver decides which tenant a request acts for.
//
// Header mode reads Header. Token mode (Tokens != nil) trusts only the
// verified tenant_domain claim and ignores the header. When neither yields
// a tenant, Fallback is used if set; otherwise the request is rejected.
type Resolver struct {
	Header   string
	Fallback string
	Tokens   TokenVerifier

	now func() time.Time
}

func NewResolver(header, fallback string, tokens TokenVerifier) *Resolver {
	return &Resolver{Header: header, Fallback: fallback, Tokens: tokens, now: time.Now}
}

// Middleware resolves the tenant, stores it on the request context and the
// gin context, and aborts with 401 when no tenant is available.
func (r *Resolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		domain, ok := r.resolve(c)
		if !ok {
			return
		}
		c.Set(logger.TenantKey, domain)
		c.Request = c.Request.WithContext(WithDomain(c.Request.Context(), domain))
		c.Next()
	}
}

func (r *Resolver) resolve(c *gin.Context) (string, bool) {
	if r.Tokens != nil {
		tok, present := auth.BearerToken(c)
		if present {
			claims, err := r.Tokens.Verify(tok, r.clock())
			if err != nil {
				logger.FromGin(c).Info("tenant token rejected", "err", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return "", false
			}
			c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
			return normalize(claims.TenantDomain), true
		}
	} else if d := normalize(c.GetHeader(r.Header)); d != "" {
		return d, true
	}

	if r.Fallback != "" {
		logger.FromGin(c).Warn("tenant not supplied, using fallback tenant", "tenant", r.Fallback)
		return normalize(r.Fallback), true
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant not resolved"})
	return "", false
}

func (r *Resolver) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

// Shop domains are case-insensitive hostnames.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
