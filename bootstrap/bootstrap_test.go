package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/startup-analyzer/component"
	"github.com/kbukum/startup-analyzer/config"
	"github.com/kbukum/startup-analyzer/logger"
)

type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(context.Context) error {
	m.started = true
	m.record("start:" + m.name)
	return m.startErr
}
func (m *mockComponent) Stop(context.Context) error {
	m.stopped = true
	m.record("stop:" + m.name)
	return m.stopErr
}
func (m *mockComponent) Health(context.Context) component.Health { return m.health }

func (m *mockComponent) record(e string) {
	if m.events != nil {
		*m.events = append(*m.events, e)
	}
}

// describedComponent adds summary metadata.
type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() component.Description {
	return component.Description{Name: "HTTP Server", Type: "server", Details: "0.0.0.0", Port: 8080}
}

func (d *describedComponent) Routes() []component.Route {
	return []component.Route{{Method: "POST", Path: "/analyze", Handler: "Handler.Analyze"}}
}

func healthy(name string) component.Health {
	return component.Health{Name: name, Status: component.StatusHealthy}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "test-svc", Version: "1.0.0", Environment: "development"}}
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", io.Discard)
	opts = append([]Option{WithLogger(log), WithSummaryWriter(io.Discard)}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "test-svc" || app.Version != "1.0.0" {
		t.Errorf("name/version = %q/%q", app.Name, app.Version)
	}
	if app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Fatal("expected registry, logger and summary")
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("Cfg.Environment = %q", app.Cfg.Environment)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("gracefulTimeout = %v", app.gracefulTimeout)
	}
	if logger.GetGlobalLogger() != app.Logger {
		t.Error("WithLogger should install the app logger globally")
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}}
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestNewAppWithOptions(t *testing.T) {
	app := newTestApp(t, WithGracefulTimeout(30*time.Second), WithoutSummary())
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}
	if app.summaryOut != nil {
		t.Error("WithoutSummary should disable output")
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(&mockComponent{name: "sessions"}); err != nil {
		t.Fatalf("RegisterComponent: %v", err)
	}
	if app.Components.Get("sessions") == nil {
		t.Error("expected component to be registered")
	}
	if err := app.RegisterComponent(&mockComponent{name: "sessions"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "a", health: healthy("a")})
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("ReadyCheck = %v", err)
	}

	_ = app.RegisterComponent(&mockComponent{name: "b", health: component.Health{Name: "b", Status: component.StatusUnhealthy, Message: "down"}})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "b=unhealthy(down)") {
		t.Errorf("ReadyCheck = %v", err)
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	var events []string
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "sessions", health: healthy("sessions"), events: &events})
	_ = app.RegisterComponent(&mockComponent{name: "server", health: healthy("server"), events: &events})

	app.OnStart(func(context.Context) error { events = append(events, "onStart"); return nil })
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		events = append(events, "configure:"+a.Cfg.Name)
		return nil
	})
	app.OnReady(func(context.Context) error { events = append(events, "onReady"); return nil })
	app.OnStop(func(context.Context) error { events = append(events, "onStop"); return nil })

	err := app.RunTask(context.Background(), func(context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := "start:sessions,start:server,onStart,configure:test-svc,onReady,task,onStop,stop:server,stop:sessions"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events:\n got %s\nwant %s", got, want)
	}
}

func TestRunTask_TaskErrorStillStops(t *testing.T) {
	app := newTestApp(t)
	c := &mockComponent{name: "sessions", health: healthy("sessions")}
	_ = app.RegisterComponent(c)

	taskErr := errors.New("analysis failed")
	err := app.RunTask(context.Background(), func(context.Context) error { return taskErr })
	if !errors.Is(err, taskErr) {
		t.Errorf("RunTask error = %v", err)
	}
	if !c.stopped {
		t.Error("component should be stopped after task error")
	}
}

func TestRunTask_StartFailure(t *testing.T) {
	app := newTestApp(t)
	first := &mockComponent{name: "first"}
	_ = app.RegisterComponent(first)
	_ = app.RegisterComponent(&mockComponent{name: "second", startErr: errors.New("bind failed")})

	ran := false
	err := app.RunTask(context.Background(), func(context.Context) error { ran = true; return nil })
	if err == nil || !strings.Contains(err.Error(), "initialization failed") {
		t.Fatalf("err = %v", err)
	}
	if ran {
		t.Error("task should not run")
	}
	if !first.stopped {
		t.Error("already-started component should be stopped")
	}
}

func TestRunTask_ConfigureFailureStopsComponents(t *testing.T) {
	app := newTestApp(t)
	c := &mockComponent{name: "sessions"}
	_ = app.RegisterComponent(c)
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { return errors.New("no handler") })

	err := app.RunTask(context.Background(), func(context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "configuration failed") {
		t.Fatalf("err = %v", err)
	}
	if !c.stopped {
		t.Error("component should be stopped")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	app := newTestApp(t)
	c := &mockComponent{name: "server", health: healthy("server")}
	_ = app.RegisterComponent(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !c.started || !c.stopped {
		t.Errorf("started=%v stopped=%v", c.started, c.stopped)
	}
}

func TestStopErrorPropagates(t *testing.T) {
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "x", stopErr: errors.New("stuck")})
	err := app.RunTask(context.Background(), func(context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "stuck") {
		t.Errorf("err = %v", err)
	}
}

func TestRunHooks_Error(t *testing.T) {
	err := runHooks(context.Background(), []Hook{
		func(context.Context) error { return nil },
		func(context.Context) error { return errors.New("boom") },
	})
	if err == nil || !strings.Contains(err.Error(), "hook 1 failed") {
		t.Errorf("err = %v", err)
	}
}

func TestSummary_Collect(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, WithSummaryWriter(&out))
	_ = app.RegisterComponent(&describedComponent{mockComponent{name: "http-server", health: healthy("http-server")}})
	_ = app.RegisterComponent(&mockComponent{name: "sessions", health: healthy("sessions")})

	if err := app.RunTask(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}

	s := out.String()
	for _, want := range []string{
		"test-svc 1.0.0 started",
		"HTTP Server [server]: 0.0.0.0 (:8080)",
		"/analyze",
		"Handler.Analyze",
		"All components healthy (2/2)",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
	if len(app.Summary.Routes()) != 1 {
		t.Errorf("routes = %v", app.Summary.Routes())
	}
}

func TestSummary_Empty(t *testing.T) {
	var out bytes.Buffer
	s := NewSummary("svc", "dev")
	s.Collect(context.Background(), nil)
	s.Write(&out)
	if !strings.Contains(out.String(), "No components registered") {
		t.Errorf("output = %s", out.String())
	}
}
