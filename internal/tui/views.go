package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"aegis/internal/controller"
	"aegis/internal/models"
)

func renderTabs(active controller.Tab) string {
	cells := make([]string, 0, len(controller.Tabs))
	for i, tab := range controller.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		if tab == active {
			cells = append(cells, activeTabStyle.Render(label))
		} else {
			cells = append(cells, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderHeader(st controller.State) string {
	line := brandStyle.Render("AEGIS") + subtleStyle.Render("  Engineering Agent")
	if st.Status != nil {
		line += subtleStyle.Render(fmt.Sprintf("  ·  %s  ·  %s", st.Status.Agent, st.Status.Status))
	} else {
		line += subtleStyle.Render("  ·  offline")
	}
	return line
}

func styleFor(t models.LogType) lipgloss.Style {
	switch t {
	case models.LogTypeCommand:
		return commandStyle
	case models.LogTypeSuccess:
		return successStyle
	case models.LogTypeWarning:
		return warningStyle
	case models.LogTypeError:
		return errorStyle
	default:
		return infoStyle
	}
}

// renderLog formats the terminal log, one block per entry.
func renderLog(entries []models.LogEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		prefix := "  "
		if e.Type == models.LogTypeCommand {
			prefix = "> "
		}
		b.WriteString(subtleStyle.Render(e.Timestamp))
		b.WriteString(" ")
		b.WriteString(styleFor(e.Type).Render(prefix + e.Message))
	}
	return b.String()
}

func renderSuggestions() string {
	cells := make([]string, 0, len(suggestedActions))
	for _, a := range suggestedActions {
		cells = append(cells, subtleStyle.Render("["+a+"]"))
	}
	return strings.Join(cells, " ")
}

func percentBar(value, width int) string {
	if width <= 0 {
		width = 20
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := int(math.Round(float64(value) / 100 * float64(width)))
	return successStyle.Render(strings.Repeat("█", filled)) + subtleStyle.Render(strings.Repeat("░", width-filled))
}

func renderDashboard(st controller.State) string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("Project Health"))
	b.WriteString("\n")
	if st.Status == nil {
		b.WriteString(subtleStyle.Render("Waiting for status..."))
	} else {
		h := st.Status.Health
		fmt.Fprintf(&b, "Coverage   %3d%%  %s\n", h.Coverage, percentBar(h.Coverage, 20))
		fmt.Fprintf(&b, "Lint       %4d  %s\n", h.LintScore, percentBar(h.LintScore, 20))
		fmt.Fprintf(&b, "Freshness  %3d%%  %s\n", h.DependencyFreshness, percentBar(h.DependencyFreshness, 20))
		fmt.Fprintf(&b, "Debt       %s\n", h.TechnicalDebt)
		fmt.Fprintf(&b, "Warnings   %d\n\n", h.SecurityWarnings)
		fmt.Fprintf(&b, "%s on %s  ·  RSS %s  ·  heap %s  ·  up %s",
			st.Status.System, st.Status.Platform,
			humanize.IBytes(st.Status.Memory.RSS),
			humanize.IBytes(st.Status.Memory.HeapUsed),
			formatUptime(st.Status.Uptime))
	}

	b.WriteString("\n\n")
	b.WriteString(sectionTitleStyle.Render("Risk Analysis"))
	b.WriteString("\n")
	if st.Analysis == nil {
		b.WriteString(subtleStyle.Render("Analysis unavailable"))
		return b.String()
	}
	r := st.Analysis.Risk
	fmt.Fprintf(&b, "Risk Score %d/100  %s\n", r.Score, percentBar(r.Score, 20))
	fmt.Fprintf(&b, "Impact Radius %s  ·  Breakage %s  ·  Complexity %d/10\n\n",
		r.ImpactRadius, humanize.FormatFloat("#.##", r.BreakageProbability*100)+"%", r.Complexity)

	b.WriteString(sectionTitleStyle.Render("Dependencies"))
	for _, d := range st.Analysis.Dependencies {
		style := successStyle
		if d.Status != models.DependencyUpToDate {
			style = warningStyle
		}
		fmt.Fprintf(&b, "\n%-12s %-10s → %-10s %s", d.Name, d.Current, d.Latest, style.Render(d.Status))
	}
	return b.String()
}

func formatUptime(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(seconds))
	}
	return d.Truncate(time.Second).String()
}

func renderPlan() string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("Execution Plan"))
	for _, t := range planTasks {
		mark, style := "○", subtleStyle
		switch t.Status {
		case taskDone:
			mark, style = "✓", subtleStyle.Strikethrough(true)
		case taskActive:
			mark, style = "●", brandStyle
		}
		fmt.Fprintf(&b, "\n%s %s  %s\n    %s", mark, style.Render(t.Title), subtleStyle.Render(string(t.Status)), t.Desc)
	}
	b.WriteString("\n\n")
	b.WriteString(sectionTitleStyle.Render("Pipeline"))
	b.WriteString("\n")
	cells := make([]string, 0, len(phases))
	for _, p := range phases {
		switch p.Status {
		case "complete":
			cells = append(cells, subtleStyle.Render("✓ "+p.Name))
		case "active":
			cells = append(cells, brandStyle.Render("● "+p.Name))
		default:
			cells = append(cells, "○ "+p.Name)
		}
	}
	b.WriteString(strings.Join(cells, "  "))
	return b.String()
}

func renderSecurity(st controller.State) string {
	var b strings.Builder
	b.WriteString(errorStyle.Bold(true).Render("Vulnerability Scan"))
	b.WriteString(subtleStyle.Render("  REAL-TIME MONITORING ACTIVE"))
	for _, c := range securityChecks {
		fmt.Fprintf(&b, "\n  %-24s %s", c, successStyle.Bold(true).Render("PASSED"))
	}
	b.WriteString("\n")
	for _, line := range securityScanLog {
		b.WriteString("\n  " + subtleStyle.Render("› ") + line)
	}
	warnings := 0
	if st.Status != nil {
		warnings = st.Status.Health.SecurityWarnings
	}
	rating := "A+"
	if warnings > 0 {
		rating = "B"
	}
	fmt.Fprintf(&b, "\n\n%s %s  ·  %d warnings\n", sectionTitleStyle.Render("Security Rating"), brandStyle.Render(rating), warnings)
	b.WriteString(sectionTitleStyle.Render("Active Protections"))
	for _, p := range activeProtections {
		b.WriteString("\n  " + successStyle.Render("✓ ") + p)
	}
	return b.String()
}

func renderMemory(st controller.State) string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("Project Memory Engine"))
	if st.Analysis == nil || len(st.Analysis.Memory) == 0 {
		b.WriteString("\n" + subtleStyle.Render("No learned conventions yet."))
		return b.String()
	}
	for _, m := range st.Analysis.Memory {
		fmt.Fprintf(&b, "\n\n%s\n  %s", brandStyle.Render(m.Key), m.Value)
	}
	return b.String()
}

func renderReasoning(st controller.State, width int) string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("Reasoning Engine"))
	b.WriteString("\n" + subtleStyle.Render("Current Objective") + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(st.ActiveTab.Objective()))

	b.WriteString("\n\n" + sectionTitleStyle.Render("Live Telemetry"))
	var rssMB, uptime int64
	if st.Status != nil {
		rssMB = int64(math.Round(float64(st.Status.Memory.RSS) / 1024 / 1024))
		uptime = int64(math.Round(st.Status.Uptime))
	}
	fmt.Fprintf(&b, "\nMemory RSS      %dMB", rssMB)
	fmt.Fprintf(&b, "\nSession Uptime  %ss", humanize.Comma(uptime))

	b.WriteString("\n\n" + successStyle.Bold(true).Render("Risk Assessment"))
	b.WriteString("\n" + lipgloss.NewStyle().Width(width).Render("Current plan risk: LOW. No destructive operations detected in active pipeline."))
	return panelStyle.Width(width + 2).Render(b.String())
}
