// Package version provides build-time version information.
package version

import "fmt"

// Name is the program name reported by -version.
const Name = "palette-finder"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String returns the one-line version banner.
func String() string {
	return fmt.Sprintf("%s v%s (commit %s, built %s)", Name, Version, GitCommit, BuildTime)
}
