// Package buildinfo exposes build information for rentdesk-cli.
//
//   - Version: semantic version (e.g., "1.0.0")
//   - Commit: git commit hash
//   - BuildTime: build timestamp
//   - GoVersion: Go compiler version
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/rentdesk-go/internal/infra/buildinfo.Version=1.0.0"
package buildinfo
