// Package models defines the snapshot and log types shared by the Aegis
// facade, its HTTP surface, and the client-side controller.
package models

// MemoryUsage captures process memory figures sampled for the status panel.
type MemoryUsage struct {
	RSS       uint64 `json:"rss"`
	VMS       uint64 `json:"vms"`
	HeapTotal uint64 `json:"heapTotal"`
	HeapUsed  uint64 `json:"heapUsed"`
	External  uint64 `json:"external"`
}

// Health is the constant project-health block reported with every status.
type Health struct {
	Coverage            int    `json:"coverage"`
	LintScore           int    `json:"lintScore"`
	DependencyFreshness int    `json:"dependencyFreshness"`
	SecurityWarnings    int    `json:"securityWarnings"`
	TechnicalDebt       string `json:"technicalDebt"`
}

// SystemStatus is an immutable snapshot returned by GET /api/status.
type SystemStatus struct {
	Status   string      `json:"status"`
	Agent    string      `json:"agent"`
	System   string      `json:"system"`
	Platform string      `json:"platform"`
	Memory   MemoryUsage `json:"memory"`
	Uptime   float64     `json:"uptime"`
	Health   Health      `json:"health"`
}

// Risk summarizes change risk for the dashboard.
type Risk struct {
	Score               int     `json:"score"`
	ImpactRadius        string  `json:"impactRadius"`
	BreakageProbability float64 `json:"breakageProbability"`
	Complexity          int     `json:"complexity"`
}

// MemoryRecord is a free-form key/value note shown on the memory panel.
type MemoryRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AnalysisData is the snapshot returned by GET /api/analysis.
type AnalysisData struct {
	Risk         Risk           `json:"risk"`
	Dependencies []Dependency   `json:"dependencies"`
	Memory       []MemoryRecord `json:"memory"`
}

// Copy returns a deep copy so callers can hold the snapshot without sharing slices.
func (a *AnalysisData) Copy() *AnalysisData {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Dependencies = append([]Dependency(nil), a.Dependencies...)
	dup.Memory = append([]MemoryRecord(nil), a.Memory...)
	return &dup
}

// ExecuteRequest is the body accepted by POST /api/execute.
type ExecuteRequest struct {
	Command string `json:"command"`
}

// ExecuteResult is the body returned by POST /api/execute.
type ExecuteResult struct {
	Output   string `json:"output"`
	ExitCode int    `json:"exitCode"`
}

// StatusEvent is the envelope pushed to websocket subscribers.
// Host is omitted when host telemetry could not be sampled.
type StatusEvent struct {
	Type string         `json:"type"`
	Data SystemStatus   `json:"data"`
	Host *HostTelemetry `json:"host,omitempty"`
}
