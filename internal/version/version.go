// Package version holds the pkginit build metadata.
// It has no dependencies so any package can import it.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// String returns the one-line version banner, e.g. "pkginit 1.2.0 (abc1234)".
func String() string {
	if Commit == "unknown" {
		return fmt.Sprintf("pkginit %s", Version)
	}
	return fmt.Sprintf("pkginit %s (%s)", Version, Commit)
}

// Platform returns GOOS/GOARCH of the running binary.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
