package testutil

import (
	"context"

	"github.com/kbukum/startup-analyzer/component"
)

// TestComponent is a component whose state a test can rewind.
type TestComponent interface {
	component.Component

	// Reset returns the component to the state it had right after Start.
	Reset(ctx context.Context) error

	// Snapshot captures the current state for a later Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore returns to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}
