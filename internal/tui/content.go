package tui

// Panel content that does not come from the backend.

type taskStatus string

const (
	taskDone    taskStatus = "done"
	taskActive  taskStatus = "active"
	taskPending taskStatus = "pending"
)

type planTask struct {
	Title  string
	Desc   string
	Status taskStatus
}

var planTasks = []planTask{
	{"Recon Phase", "Scan project structure and detect dependencies", taskDone},
	{"Advanced UI Implementation", "Build multi-tab dashboard with real-time telemetry", taskActive},
	{"Self-Healing Validation", "Implement automated error detection and recovery", taskPending},
	{"Security Hardening", "Scan for vulnerabilities and enforce security headers", taskPending},
	{"Performance Profiling", "Run benchmarks and identify bottlenecks", taskPending},
}

type phase struct {
	Name   string
	Status string // complete, active, pending
}

var phases = []phase{
	{"Recon", "complete"},
	{"Planning", "active"},
	{"Execution", "pending"},
	{"Validation", "pending"},
	{"Hygiene", "pending"},
}

var securityChecks = []string{"SQL Injection Check", "XSS Protection Check", "Secret Detection"}

var securityScanLog = []string{
	"Scanning environment variables for secrets...",
	"No hardcoded credentials found in source.",
	"Enforcing Content-Security-Policy headers.",
	"Security baseline established.",
}

var activeProtections = []string{"CSRF Protection", "Rate Limiting", "Input Sanitization", "Secure Cookies"}

var suggestedActions = []string{"Refine Terminal Input", "Enhance Chat Input", "Optimize Layout", "Add Security Layer"}

const inputPlaceholder = "Make changes, add new features, ask for anything"
