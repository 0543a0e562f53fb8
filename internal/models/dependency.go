package models

const (
	DependencyUpToDate = "up-to-date"
	DependencyOutdated = "outdated"
)

// Dependency describes one tracked package and whether it lags its latest release.
type Dependency struct {
	Name    string `json:"name"`
	Current string `json:"current"`
	Latest  string `json:"latest"`
	Status  string `json:"status"`
}

// DependencyStatusFor derives the status label from a plain string comparison.
// No semver ordering is applied: any difference is "outdated".
func DependencyStatusFor(current, latest string) string {
	if current == latest {
		return DependencyUpToDate
	}
	return DependencyOutdated
}

// NewDependency builds a Dependency with its status derived.
func NewDependency(name, current, latest string) Dependency {
	return Dependency{
		Name:    name,
		Current: current,
		Latest:  latest,
		Status:  DependencyStatusFor(current, latest),
	}
}
