package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/startup-analyzer/component"
)

// Manager starts a set of components in order and stops them in reverse,
// the way the application registry does.
type Manager struct {
	ctx        context.Context
	components []component.Component
	mu         sync.RWMutex
}

// NewManager creates an empty Manager.
func NewManager(ctx context.Context) *Manager {
	return &Manager{ctx: ctx}
}

// Add appends c to the start order.
func (m *Manager) Add(c component.Component) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, c)
}

// Components returns the registered components in start order.
func (m *Manager) Components() []component.Component {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]component.Component, len(m.components))
	copy(out, m.components)
	return out
}

// Get returns the component with the given name, or nil.
func (m *Manager) Get(name string) component.Component {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// StartAll starts every component in order and stops at the first failure.
// Components started before the failure are stopped again.
func (m *Manager) StartAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, c := range m.components {
		if err := c.Start(m.ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = m.components[j].Stop(m.ctx)
			}
			return fmt.Errorf("failed to start component %s: %w", c.Name(), err)
		}
	}
	return nil
}

// StopAll stops every component in reverse order and joins the failures.
func (m *Manager) StopAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs []error
	for i := len(m.components) - 1; i >= 0; i-- {
		c := m.components[i]
		if err := c.Stop(m.ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop component %s: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ResetAll resets every component that implements TestComponent.
func (m *Manager) ResetAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.components {
		tc, ok := c.(TestComponent)
		if !ok {
			continue
		}
		if err := tc.Reset(m.ctx); err != nil {
			return fmt.Errorf("failed to reset component %s: %w", c.Name(), err)
		}
	}
	return nil
}

// Cleanup is StopAll, shaped for t.Cleanup and defer.
func (m *Manager) Cleanup() error {
	return m.StopAll()
}
