package facade

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"aegis/internal/models"
)

// HostMonitor samples machine load. CPU usage is computed from the delta
// between consecutive samples, so the first reading reports 0.
type HostMonitor struct {
	mu        sync.Mutex
	prevTotal float64
	prevIdle  float64
	hasPrev   bool
}

// NewHostMonitor returns a monitor with no previous CPU sample.
func NewHostMonitor() *HostMonitor {
	return &HostMonitor{}
}

// Sample reads the current host figures. It returns nil when CPU times are
// unavailable on this platform.
func (h *HostMonitor) Sample(ctx context.Context) *models.HostTelemetry {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil || len(times) == 0 {
		return nil
	}
	total := cpuTotal(times[0])
	idle := times[0].Idle + times[0].Iowait

	h.mu.Lock()
	deltaTotal, deltaIdle, hasPrev := total-h.prevTotal, idle-h.prevIdle, h.hasPrev
	h.prevTotal, h.prevIdle, h.hasPrev = total, idle, true
	h.mu.Unlock()

	t := &models.HostTelemetry{SampledAt: time.Now()}
	if hasPrev && deltaTotal > 0 {
		t.CPUPercent = clamp((deltaTotal-deltaIdle)/deltaTotal*100, 0, 100)
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm != nil {
		t.MemoryPercent = clamp(vm.UsedPercent, 0, 100)
		t.MemoryUsed = vm.Used
		t.MemoryTotal = vm.Total
	}
	if avg, err := load.AvgWithContext(ctx); err == nil && avg != nil {
		t.Load1 = avg.Load1
	}
	if info, err := host.InfoWithContext(ctx); err == nil && info != nil {
		t.Uptime = info.Uptime
		t.Processes = info.Procs
		t.Hostname = info.Hostname
	}
	return t
}

func cpuTotal(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal + t.Guest + t.GuestNice
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
