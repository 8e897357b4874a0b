package testutil

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/startup-analyzer/component"
	"github.com/kbukum/startup-analyzer/server/middleware"
	"github.com/kbukum/startup-analyzer/testutil"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, url, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent()
	ctx := context.Background()

	if comp.BaseURL() != "" {
		t.Error("BaseURL() should be empty before Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health before Start = %q", h.Status)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := comp.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}
	if comp.BaseURL() == "" {
		t.Error("BaseURL() should be set after Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health = %q, want %q", h.Status, component.StatusHealthy)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if comp.BaseURL() != "" {
		t.Error("BaseURL() should be empty after Stop")
	}
}

func TestComponent_ServesWithMiddleware(t *testing.T) {
	comp := NewComponent()
	comp.GinEngine().GET("/hello", func(c *gin.Context) {
		c.String(http.StatusOK, "world")
	})
	testutil.T(t).Setup(comp)

	resp, body := get(t, comp.BaseURL()+"/hello")
	if resp.StatusCode != http.StatusOK || body != "world" {
		t.Errorf("GET /hello = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("standard middleware should stamp a request ID")
	}
}

func TestComponent_ExtraMiddleware(t *testing.T) {
	mark := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "yes")
			next.ServeHTTP(w, r)
		})
	}
	comp := NewComponent(WithMiddleware(mark))
	testutil.T(t).Setup(comp)

	resp, _ := get(t, comp.BaseURL()+"/missing")
	if resp.StatusCode != http.StatusNotFound || resp.Header.Get("X-Test") != "yes" {
		t.Errorf("got %d X-Test=%q", resp.StatusCode, resp.Header.Get("X-Test"))
	}
}

func TestComponent_Reset(t *testing.T) {
	comp := NewComponent()
	comp.GinEngine().GET("/old", func(c *gin.Context) { c.Status(http.StatusOK) })
	h := testutil.T(t)
	h.Setup(comp)

	h.Reset(comp)
	if resp, _ := get(t, comp.BaseURL()+"/old"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("/old after Reset = %d, want 404", resp.StatusCode)
	}
	if snap := h.Snapshot(comp); snap != nil {
		t.Errorf("Snapshot = %v", snap)
	}
}

func TestComponent_ResetBeforeStart(t *testing.T) {
	if err := NewComponent().Reset(context.Background()); err == nil {
		t.Error("Reset before Start should fail")
	}
}
