// Package version exposes the application version stamped into export files
// and reported by the health endpoint.
package version

// Version is overridden at build time via
// -ldflags "-X github.com/AptS-1547/dns-orchestrator/internal/version.Version=v1.2.3".
var Version = "dev"
