// Package version reports the analyzer's build version for the /info
// endpoint and the `analyzer version` command.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/startup-analyzer/version.Version=v1.0.0" ./cmd/analyzer
package version
