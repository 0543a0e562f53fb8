// Package version holds build metadata injected via -ldflags, e.g.
//
//	-X aegis/internal/version.Version=v1.2.0 -X aegis/internal/version.Commit=abc123
package version

import "runtime"

var (
	// Version is a SemVer tag like v1.2.0 for releases. Empty for dev builds.
	Version = ""
	// Commit is the short git SHA for the build.
	Commit = ""
	// Date is the UTC build timestamp in RFC3339 format.
	Date = ""
	// Dirty is "dirty" when the working tree had uncommitted changes.
	Dirty = ""
)

// Info is the JSON shape served by GET /version and printed by `aegis version`.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Go      string `json:"go"`
}

// String returns Version for releases, "dev-<sha>" (with a trailing * when
// dirty) for dev builds, or "dev" when no metadata is available.
func String() string {
	if Version != "" {
		return Version
	}
	if Commit != "" {
		suffix := Commit
		if Dirty == "dirty" {
			suffix += "*"
		}
		return "dev-" + suffix
	}
	return "dev"
}

// Current returns the build metadata.
func Current() Info {
	return Info{
		Version: String(),
		Commit:  Commit,
		Date:    Date,
		Go:      runtime.Version(),
	}
}
