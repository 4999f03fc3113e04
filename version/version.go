// Package version exposes build information stamped in at link time.
package version

import (
	"fmt"
	"runtime"
)

// Build information, overridable at link time via -ldflags.
var (
	// Version is the semantic version of this build.
	Version = "dev"

	// Commit is the git commit hash this binary was built from.
	Commit = "unknown"

	// BuildDate is the timestamp this binary was built at.
	BuildDate = "unknown"
)

// Info aggregates the build information for display.
type Info struct {
	// Version is the semantic version of this build.
	Version string

	// Commit is the git commit hash this binary was built from.
	Commit string

	// BuildDate is the timestamp this binary was built at.
	BuildDate string

	// GoVersion is the Go toolchain version the binary was compiled with.
	GoVersion string
}

// GetInfo returns the build information for this binary.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns the build information formatted for display.
func (i Info) String() string {
	return fmt.Sprintf("drover %s\ncommit: %s\nbuilt: %s\ngo: %s\n", i.Version, i.Commit, i.BuildDate, i.GoVersion)
}
