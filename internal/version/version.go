// Package version provides the single source of truth for maplint
// version information.
package version

// Overridden at build time:
// go build -ldflags "-X maplint/internal/version.Version=1.0.0 -X maplint/internal/version.Commit=abc123"
var (
	// Version is the semantic version of maplint
	Version = "0.3.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"
)

// Info returns a formatted version string.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}
