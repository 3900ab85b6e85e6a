// Package version holds build metadata injected at link time.
package version

// Set via -ldflags "-X github.com/winmcp/winmcp/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
