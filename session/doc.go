// Package session keeps the per-browser state of the analyzer in memory:
// the last upload, the API key, the selected query and the last report or
// error. Entries are keyed by a random UUID held in a cookie and expire
// after a configurable idle time. Nothing is ever written to disk.
package session
