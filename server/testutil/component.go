package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/startup-analyzer/component"
	"github.com/kbukum/startup-analyzer/logger"
	"github.com/kbukum/startup-analyzer/server"
	"github.com/kbukum/startup-analyzer/server/middleware"
	"github.com/kbukum/startup-analyzer/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Component is a server backed by httptest.Server.
type Component struct {
	cfg     server.Config
	log     *logger.Logger
	extra   []middleware.Middleware
	srv     *server.Server
	ts      *httptest.Server
	started bool
	mu      sync.RWMutex
}

var _ testutil.TestComponent = (*Component)(nil)

// Option configures a Component.
type Option func(*Component)

// WithLogger routes server logs to log.
func WithLogger(log *logger.Logger) Option {
	return func(c *Component) { c.log = log }
}

// WithConfig replaces the server configuration. Host and port are ignored;
// httptest picks a loopback port.
func WithConfig(cfg server.Config) Option {
	return func(c *Component) { c.cfg = cfg }
}

// WithMiddleware appends middleware after the standard stack.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(c *Component) { c.extra = append(c.extra, mw...) }
}

// NewComponent creates a test server component. Routes can be registered
// on GinEngine before or after Start.
func NewComponent(opts ...Option) *Component {
	c := &Component{}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.NewDefault("server-test")
	}
	c.cfg.Host, c.cfg.Port = "127.0.0.1", 0
	c.cfg.ApplyDefaults()
	c.srv = c.newServer()
	return c
}

func (c *Component) newServer() *server.Server {
	srv := server.New(c.cfg, c.log)
	srv.ApplyMiddleware()
	srv.Use(c.extra...)
	return srv
}

// GinEngine returns the engine routes are registered on.
func (c *Component) GinEngine() *gin.Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.srv.GinEngine()
}

// Server returns the wrapped *server.Server.
func (c *Component) Server() *server.Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.srv
}

// BaseURL returns "http://127.0.0.1:PORT", or "" before Start.
func (c *Component) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ts == nil {
		return ""
	}
	return c.ts.URL
}

// --- component.Component ---

// Name returns the component name.
func (c *Component) Name() string { return "server-test" }

// Start begins serving on a loopback port.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("component already started")
	}
	c.ts = httptest.NewServer(c.srv.Handler())
	c.started = true
	return nil
}

// Stop closes the listener and waits for in-flight requests.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	c.ts.Close()
	c.ts = nil
	c.started = false
	return nil
}

// Health reports whether the test server is listening.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.started {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: c.ts.URL}
}

// --- testutil.TestComponent ---

// Reset replaces the server with a fresh engine that has no routes.
func (c *Component) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return fmt.Errorf("component not started")
	}
	c.ts.Close()
	c.srv = c.newServer()
	c.ts = httptest.NewServer(c.srv.Handler())
	return nil
}

// Snapshot is a no-op; the server holds no test-visible state.
func (c *Component) Snapshot(_ context.Context) (interface{}, error) {
	return nil, nil
}

// Restore is a no-op.
func (c *Component) Restore(_ context.Context, _ interface{}) error {
	return nil
}
