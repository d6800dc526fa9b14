// Package version holds build-time metadata set via linker flags, the same
// way the teacher's internal/env package did for its own CLI.
package version

var (
	Version    = "dev"
	CommitHash = "none"
	BuildTime  = "unknown"
)
