package models

import "time"

// HostTelemetry captures machine-level load sampled alongside each pushed
// status event. Percentages are clamped to [0, 100].
type HostTelemetry struct {
	CPUPercent    float64   `json:"cpuPercent"`
	MemoryPercent float64   `json:"memoryPercent"`
	MemoryUsed    uint64    `json:"memoryUsed"`
	MemoryTotal   uint64    `json:"memoryTotal"`
	Load1         float64   `json:"load1"`
	Uptime        uint64    `json:"uptime"`
	Processes     uint64    `json:"processes"`
	Hostname      string    `json:"hostname,omitempty"`
	SampledAt     time.Time `json:"sampledAt"`
}
