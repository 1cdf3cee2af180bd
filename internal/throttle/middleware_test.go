package throttle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"telephony-log/internal/tenant"

	"github.com/gin-gonic/gin"
)

type fakeLimiter struct {
	mu       sync.Mutex
	limit    int
	inflight map[string]int
	released []string
	err      error
}

func newFakeLimiter(limit int) *fakeLimiter {
	return &fakeLimiter{limit: limit, inflight: map[string]int{}}
}

func (f *fakeLimiter) Acquire(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.inflight[key] >= f.limit {
		return false, nil
	}
	f.inflight[key]++
	return true, nil
}

func (f *fakeLimiter) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight[key]--
	f.released = append(f.released, key)
	return nil
}

func newRouter(l Limiter, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(tenant.NewResolver("X-Shopify-Shop-Domain", "", nil).Middleware(), Middleware(l))
	r.GET("/x", handler)
	return r
}

func get(r *gin.Engine, shop string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Shopify-Shop-Domain", shop)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_ReleasesAfterRequest(t *testing.T) {
	l := newFakeLimiter(1)
	r := newRouter(l, func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if w := get(r, "shop-a.example"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	if len(l.released) != 3 || l.released[0] != Key("shop-a.example") {
		t.Fatalf("expected 3 releases of the tenant key, got %v", l.released)
	}
}

func TestMiddleware_RejectsOverCapPerTenant(t *testing.T) {
	l := newFakeLimiter(1)
	entered := make(chan struct{})
	unblock := make(chan struct{})
	r := newRouter(l, func(c *gin.Context) {
		if c.GetHeader("X-Shopify-Shop-Domain") == "shop-a.example" {
			entered <- struct{}{}
			<-unblock
		}
		c.Status(http.StatusOK)
	})

	done := make(chan int)
	go func() { done <- get(r, "shop-a.example").Code }()
	<-entered

	if w := get(r, "shop-a.example"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for second in-flight request, got %d", w.Code)
	} else if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if w := get(r, "shop-b.example"); w.Code != http.StatusOK {
		t.Fatalf("other tenants must not be capped, got %d", w.Code)
	}

	close(unblock)
	select {
	case code := <-done:
		if code != http.StatusOK {
			t.Fatalf("expected first request to succeed, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("first request did not finish")
	}
}

func TestMiddleware_LimiterErrorLetsRequestThrough(t *testing.T) {
	l := newFakeLimiter(1)
	l.err = errors.New("redis down")
	r := newRouter(l, func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := get(r, "shop-a.example"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 when limiter is unavailable, got %d", w.Code)
	}
	if len(l.released) != 0 {
		t.Fatalf("nothing acquired, nothing to release")
	}
}

func TestNewRedisLimiter_ValidatesArgs(t *testing.T) {
	if _, err := NewRedisLimiter(nil, 1, time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
