package controller

// Tab identifies one of the five panels.
type Tab string

const (
	TabTerminal  Tab = "terminal"
	TabDashboard Tab = "dashboard"
	TabPlan      Tab = "plan"
	TabSecurity  Tab = "security"
	TabMemory    Tab = "memory"
)

// Tabs lists the panels in display order.
var Tabs = []Tab{TabTerminal, TabDashboard, TabPlan, TabSecurity, TabMemory}

var tabTitles = map[Tab]string{
	TabTerminal:  "Terminal",
	TabDashboard: "Health",
	TabPlan:      "Plan",
	TabSecurity:  "Security",
	TabMemory:    "Memory",
}

var objectives = map[Tab]string{
	TabTerminal:  "Executing direct system commands and monitoring output streams for anomalies.",
	TabDashboard: "Analyzing project health metrics and cross-referencing dependency governance protocols.",
	TabPlan:      "Decomposing complex engineering tasks into verifiable, incremental execution steps.",
	TabSecurity:  "Hardening system security architecture and scanning for zero-day vulnerabilities.",
	TabMemory:    "Retrieving architectural patterns and learned conventions from the high-fidelity memory engine.",
}

// Valid reports whether t names a known panel.
func (t Tab) Valid() bool {
	_, ok := tabTitles[t]
	return ok
}

// Title is the label shown in the tab bar.
func (t Tab) Title() string {
	return tabTitles[t]
}

// Objective is the reasoning-panel text for the tab.
func (t Tab) Objective() string {
	return objectives[t]
}
