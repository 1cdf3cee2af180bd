package main

import (
	"time"

	"telephony-log/internal/audit"
	"telephony-log/internal/auth"
	"telephony-log/internal/config"
	"telephony-log/internal/conversations"
	"telephony-log/internal/httpapi"
	"telephony-log/internal/tenant"
	"telephony-log/internal/throttle"

	"github.com/gin-gonic/gin"
)

// inflightTTL bounds how long a crashed replica can hold tenant slots.
const inflightTTL = 2 * time.Minute

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, cfg config.Config, d deps) error {
	var verifier tenant.TokenVerifier
	if cfg.TokenMode() {
		m, err := auth.NewManager(cfg.Auth)
		if err != nil {
			return err
		}
		verifier = m
	}
	scoped := []gin.HandlerFunc{
		tenant.NewResolver(cfg.Tenant.Header, cfg.Tenant.Fallback, verifier).Middleware(),
		audit.ContextMiddleware(),
	}

	if d.redis != nil {
		l, err := throttle.NewRedisLimiter(d.redis, cfg.Throttle.MaxInFlight, inflightTTL)
		if err != nil {
			return err
		}
		scoped = append(scoped, throttle.Middleware(l))
	}

	svc := conversations.NewService(d.store, conversations.AuditAdapter{Audit: d.audit})
	httpapi.Mount(r, httpapi.Handlers{Conversations: svc, Ready: d.ready}, scoped...)
	return nil
}
