// Package component defines the lifecycle interface shared by the
// long-running parts of the analyzer (HTTP server, session store) and a
// registry that starts them in order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: one-line description for the startup summary
//   - RouteProvider: HTTP routes for the startup summary
package component
