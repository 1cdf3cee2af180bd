package tenant

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"telephony-log/internal/auth"
	"telephony-log/internal/config"
	"telephony-log/pkg/logger"

	"github.com/gin-gonic/gin"
)

const header = "X-Shopify-Shop-Domain"

func newRouter(r *Resolver, logs *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	l := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e.Use(logger.Middleware(l), r.Middleware())
	e.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, Domain(c.Request.Context()))
	})
	return e
}

func do(e *gin.Engine, h map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range h {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestResolver_HeaderMode(t *testing.T) {
	var logs bytes.Buffer
	e := newRouter(NewResolver(header, "", nil), &logs)

	w := do(e, map[string]string{header: " Shop-A.example "})
	if w.Code != http.StatusOK || w.Body.String() != "shop-a.example" {
		t.Fatalf("expected normalized tenant, got %d %q", w.Code, w.Body.String())
	}
}

func TestResolver_MissingTenantFailsClosed(t *testing.T) {
	var logs bytes.Buffer
	e := newRouter(NewResolver(header, "", nil), &logs)

	w := do(e, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestResolver_FallbackIsLoggedAtWarn(t *testing.T) {
	var logs bytes.Buffer
	e := newRouter(NewResolver(header, config.DefaultTenantFallback, nil), &logs)

	w := do(e, nil)
	if w.Code != http.StatusOK || w.Body.String() != config.DefaultTenantFallback {
		t.Fatalf("expected fallback tenant, got %d %q", w.Code, w.Body.String())
	}
	if !strings.Contains(logs.String(), `"level":"WARN"`) || !strings.Contains(logs.String(), "fallback tenant") {
		t.Fatalf("expected WARN log for fallback, got %s", logs.String())
	}

	logs.Reset()
	w = do(e, map[string]string{header: "shop-a.example"})
	if w.Body.String() != "shop-a.example" {
		t.Fatalf("header must win over fallback, got %q", w.Body.String())
	}
	if strings.Contains(logs.String(), "fallback tenant") {
		t.Fatalf("fallback must not be logged when unused")
	}
}

func TestResolver_TokenMode(t *testing.T) {
	m, err := auth.NewManager(config.AuthConfig{JWTSecret: "secret"})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	now := time.Unix(1700000000, 0).UTC()
	r := NewResolver(header, "", m)
	r.now = func() time.Time { return now }

	var logs bytes.Buffer
	e := newRouter(r, &logs)

	tok, err := m.Issue(now, "svc", "shop-a.example", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// The header cannot override the verified claim.
	w := do(e, map[string]string{"Authorization": "Bearer " + tok, header: "shop-b.example"})
	if w.Code != http.StatusOK || w.Body.String() != "shop-a.example" {
		t.Fatalf("expected token tenant, got %d %q", w.Code, w.Body.String())
	}

	w = do(e, map[string]string{"Authorization": "Bearer not-a-jwt"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}

	w = do(e, map[string]string{header: "shop-b.example"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when token mode sees only the header, got %d", w.Code)
	}
}
