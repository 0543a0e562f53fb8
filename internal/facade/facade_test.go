package facade

import (
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"aegis/internal/models"
)

func TestExecuteCommandMappedOutputs(t *testing.T) {
	f := New(Options{})
	for cmd, want := range DefaultCommands() {
		res := f.ExecuteCommand(cmd)
		if res.Output != want {
			t.Fatalf("ExecuteCommand(%q) output = %q, want %q", cmd, res.Output, want)
		}
		if res.ExitCode != 0 {
			t.Fatalf("ExecuteCommand(%q) exit code = %d", cmd, res.ExitCode)
		}
	}
}

func TestExecuteCommandWhoami(t *testing.T) {
	res := New(Options{}).ExecuteCommand("whoami")
	if res.Output != "aegis-agent" || res.ExitCode != 0 {
		t.Fatalf("unexpected whoami result: %#v", res)
	}
}

func TestExecuteCommandFallback(t *testing.T) {
	f := New(Options{})
	for _, cmd := range []string{"foo", "WHOAMI", " ls", "", "rm -rf /"} {
		res := f.ExecuteCommand(cmd)
		if res.ExitCode != 0 {
			t.Fatalf("fallback exit code for %q = %d", cmd, res.ExitCode)
		}
		if !strings.Contains(res.Output, "Command not found: "+cmd) {
			t.Fatalf("fallback for %q missing command text: %q", cmd, res.Output)
		}
	}
	want := "Command not found: foo\nTip: Try 'aegis health' or 'aegis plan'"
	if got := f.ExecuteCommand("foo").Output; got != want {
		t.Fatalf("foo fallback = %q, want %q", got, want)
	}
}

func TestCustomCommandTableIsCopied(t *testing.T) {
	table := CommandTable{"ping": "pong"}
	f := New(Options{Commands: table})
	table["ping"] = "mutated"
	if got := f.ExecuteCommand("ping").Output; got != "pong" {
		t.Fatalf("facade should hold its own copy, got %q", got)
	}
	if _, ok := f.commands["ls"]; ok {
		t.Fatalf("custom table should replace defaults")
	}
}

func TestGetStatus(t *testing.T) {
	started := time.Now().Add(-90 * time.Second)
	f := New(Options{Agent: "Aegis v9.9.9", StartedAt: started})
	st := f.GetStatus(context.Background())
	if st.Status != "online" {
		t.Fatalf("status = %q", st.Status)
	}
	if st.Agent != "Aegis v9.9.9" {
		t.Fatalf("agent = %q", st.Agent)
	}
	if st.Platform != runtime.GOOS || !strings.HasPrefix(st.System, "Go ") {
		t.Fatalf("unexpected runtime fields: %q %q", st.System, st.Platform)
	}
	if st.Uptime < 90 {
		t.Fatalf("uptime = %v, want >= 90", st.Uptime)
	}
	if st.Memory.RSS == 0 || st.Memory.HeapUsed == 0 {
		t.Fatalf("memory snapshot should be populated: %#v", st.Memory)
	}
	if st.Health != DefaultHealth() {
		t.Fatalf("health = %#v", st.Health)
	}
}

func TestGetStatusJSONShape(t *testing.T) {
	data, err := json.Marshal(New(Options{}).GetStatus(context.Background()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"status", "agent", "system", "platform", "memory", "uptime", "health"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("status JSON missing %q", key)
		}
	}
	health := body["health"].(map[string]any)
	for _, key := range []string{"coverage", "lintScore", "dependencyFreshness", "securityWarnings", "technicalDebt"} {
		if _, ok := health[key]; !ok {
			t.Fatalf("health JSON missing %q", key)
		}
	}
}

func TestGetAnalysisReturnsCopy(t *testing.T) {
	f := New(Options{})
	a := f.GetAnalysis()
	if len(a.Dependencies) != 3 || len(a.Memory) != 3 {
		t.Fatalf("unexpected analysis sizes: %d deps, %d notes", len(a.Dependencies), len(a.Memory))
	}
	wantStatus := map[string]string{
		"react":   models.DependencyUpToDate,
		"vite":    models.DependencyOutdated,
		"express": models.DependencyUpToDate,
	}
	for _, dep := range a.Dependencies {
		if dep.Status != wantStatus[dep.Name] {
			t.Fatalf("%s status = %q", dep.Name, dep.Status)
		}
	}
	a.Dependencies[0].Name = "mutated"
	if f.GetAnalysis().Dependencies[0].Name != "react" {
		t.Fatalf("GetAnalysis must not expose internal slices")
	}
	if a.Risk.Score != 12 || a.Risk.ImpactRadius != "Low" {
		t.Fatalf("unexpected risk: %#v", a.Risk)
	}
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *recordingPublisher) Broadcast(message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func TestSamplerPublishesStatus(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewSampler(New(Options{}), pub, 10*time.Millisecond)
	s.Start()
	s.Start()
	deadline := time.Now().Add(2 * time.Second)
	for pub.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()
	s.Stop()

	if pub.count() < 2 {
		t.Fatalf("expected at least two broadcasts, got %d", pub.count())
	}
	var ev models.StatusEvent
	if err := json.Unmarshal(pub.messages[0], &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != "status" || ev.Data.Status != "online" {
		t.Fatalf("unexpected event: %#v", ev)
	}
	after := pub.count()
	time.Sleep(30 * time.Millisecond)
	if pub.count() != after {
		t.Fatalf("sampler kept publishing after Stop")
	}
}

func TestHostMonitorClampsPercentages(t *testing.T) {
	h := NewHostMonitor()
	first := h.Sample(context.Background())
	if first == nil {
		t.Skip("host cpu times unavailable")
	}
	if first.CPUPercent != 0 {
		t.Fatalf("first sample should report 0 cpu, got %v", first.CPUPercent)
	}
	second := h.Sample(context.Background())
	if second == nil {
		t.Fatalf("second sample unexpectedly nil")
	}
	for _, v := range []float64{second.CPUPercent, second.MemoryPercent} {
		if v < 0 || v > 100 {
			t.Fatalf("percentage out of range: %v", v)
		}
	}
	if clamp(140, 0, 100) != 100 || clamp(-3, 0, 100) != 0 {
		t.Fatalf("clamp bounds wrong")
	}
}
