package testutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/startup-analyzer/component"
	"github.com/kbukum/startup-analyzer/testutil"
)

// counter is a TestComponent holding one integer of state.
type counter struct {
	name     string
	started  bool
	value    int
	startErr error
	stopped  *[]string
}

func (c *counter) Name() string { return c.name }

func (c *counter) Start(context.Context) error {
	if c.startErr != nil {
		return c.startErr
	}
	c.started = true
	return nil
}

func (c *counter) Stop(context.Context) error {
	c.started = false
	if c.stopped != nil {
		*c.stopped = append(*c.stopped, c.name)
	}
	return nil
}

func (c *counter) Health(context.Context) component.Health {
	return component.Health{Name: c.name, Status: component.StatusHealthy}
}

func (c *counter) Reset(context.Context) error {
	c.value = 0
	return nil
}

func (c *counter) Snapshot(context.Context) (interface{}, error) { return c.value, nil }

func (c *counter) Restore(_ context.Context, s interface{}) error {
	v, ok := s.(int)
	if !ok {
		return errors.New("bad snapshot")
	}
	c.value = v
	return nil
}

func TestSetup(t *testing.T) {
	c := &counter{name: "c"}
	cleanup, err := testutil.Setup(c)
	if err != nil {
		t.Fatal(err)
	}
	if !c.started {
		t.Fatal("Setup should start the component")
	}
	if err := cleanup(); err != nil || c.started {
		t.Errorf("cleanup = %v, started = %v", err, c.started)
	}
}

func TestSetup_StartError(t *testing.T) {
	c := &counter{name: "c", startErr: errors.New("boom")}
	if _, err := testutil.Setup(c); err == nil {
		t.Error("expected start error")
	}
}

func TestTHelper_SetupStopsOnCleanup(t *testing.T) {
	c := &counter{name: "c"}
	t.Run("inner", func(t *testing.T) {
		testutil.T(t).Setup(c)
		if !c.started {
			t.Error("component should be running inside the test")
		}
	})
	if c.started {
		t.Error("component should be stopped after the test")
	}
}

func TestTHelper_SnapshotRestore(t *testing.T) {
	c := &counter{name: "c"}
	h := testutil.T(t)
	h.Setup(c)

	c.value = 7
	snap := h.Snapshot(c)
	c.value = 9
	h.Restore(c, snap)
	if c.value != 7 {
		t.Errorf("value after Restore = %d", c.value)
	}
	h.Reset(c)
	if c.value != 0 {
		t.Errorf("value after Reset = %d", c.value)
	}
}

func TestManager_Lifecycle(t *testing.T) {
	var stopped []string
	a := &counter{name: "a", stopped: &stopped}
	b := &counter{name: "b", stopped: &stopped}

	m := testutil.NewManager(context.Background())
	m.Add(a)
	m.Add(b)
	if len(m.Components()) != 2 || m.Get("b") != b || m.Get("x") != nil {
		t.Fatalf("components = %v", m.Components())
	}
	if err := m.StartAll(); err != nil {
		t.Fatal(err)
	}
	if !a.started || !b.started {
		t.Fatal("StartAll should start every component")
	}
	if err := m.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if len(stopped) != 2 || stopped[0] != "b" || stopped[1] != "a" {
		t.Errorf("stop order = %v, want [b a]", stopped)
	}
}

func TestManager_StartFailureStopsStarted(t *testing.T) {
	var stopped []string
	a := &counter{name: "a", stopped: &stopped}
	b := &counter{name: "b", startErr: errors.New("boom")}

	m := testutil.NewManager(context.Background())
	m.Add(a)
	m.Add(b)
	if err := m.StartAll(); err == nil {
		t.Fatal("expected start error")
	}
	if a.started || len(stopped) != 1 {
		t.Errorf("a should be stopped again, stopped = %v", stopped)
	}
}

func TestManager_ResetAll(t *testing.T) {
	a := &counter{name: "a", value: 3}
	m := testutil.NewManager(context.Background())
	m.Add(a)
	m.Add(plainComponent{})
	if err := m.ResetAll(); err != nil {
		t.Fatal(err)
	}
	if a.value != 0 {
		t.Errorf("value = %d after ResetAll", a.value)
	}
}

// plainComponent has no Reset and must be skipped by ResetAll.
type plainComponent struct{}

func (plainComponent) Name() string { return "plain" }

func (plainComponent) Start(context.Context) error { return nil }

func (plainComponent) Stop(context.Context) error { return nil }

func (plainComponent) Health(context.Context) component.Health {
	return component.Health{Name: "plain", Status: component.StatusHealthy}
}
