// Package testutil starts and stops components inside tests.
//
// Any component.Component can be set up with automatic cleanup:
//
//	func TestStore(t *testing.T) {
//	    store, _ := session.NewStore(session.Config{}, log)
//	    testutil.T(t).Setup(store)
//	    // store is stopped when the test ends
//	}
//
// Components that also implement TestComponent can be reset between
// cases, or snapshotted and restored:
//
//	m := testutil.NewManager(ctx)
//	m.Add(store)
//	m.Add(srv)
//	if err := m.StartAll(); err != nil {
//	    t.Fatal(err)
//	}
//	t.Cleanup(func() { _ = m.Cleanup() })
//
// Manager operations are safe for concurrent use.
package testutil
