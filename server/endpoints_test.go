package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/kbukum/startup-analyzer/component"
	"github.com/kbukum/startup-analyzer/logger"
	servertest "github.com/kbukum/startup-analyzer/server/testutil"
	"github.com/kbukum/startup-analyzer/testutil"
)

func TestDefaultEndpoints_OverHTTP(t *testing.T) {
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", io.Discard)
	srv := servertest.NewComponent(servertest.WithLogger(log))
	checker := func(context.Context) []component.Health {
		return []component.Health{{Name: "sessions", Status: component.StatusHealthy, Message: "2 active"}}
	}
	srv.Server().RegisterDefaultEndpoints("analyzer", checker, map[string]string{"model": "llama"}, func() int { return 2 })
	testutil.T(t).Setup(srv)

	tests := []struct {
		path  string
		key   string
		value any
	}{
		{"/health", "status", "healthy"},
		{"/info", "model", "llama"},
		{"/metrics", "sessions", float64(2)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.BaseURL() + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body[tt.key] != tt.value {
				t.Errorf("%s = %v, want %v (body %v)", tt.key, body[tt.key], tt.value, body)
			}
		})
	}
}

func TestUnknownRoute_OverHTTP(t *testing.T) {
	srv := servertest.NewComponent(servertest.WithLogger(logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", io.Discard)))
	testutil.T(t).Setup(srv)

	resp, err := http.Post(srv.BaseURL()+"/nope", "text/plain", http.NoBody)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
