// Package util provides small helpers shared by the config, server and web
// layers: human-readable sizes and input sanitization.
package util
