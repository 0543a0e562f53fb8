// Package tui renders an Aegis session in the terminal. The interactive
// program is built on bubbletea; RunLine is a plain line-oriented fallback
// for pipes and dumb terminals.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aegis/internal/controller"
)

const reasoningWidth = 34

// ExecPrefix routes a line to the facade's command mapping instead of chat.
const ExecPrefix = "!"

type changedMsg struct{}

type executedMsg struct{}

// Model is the bubbletea model for `aegis term`.
type Model struct {
	ctrl      *controller.Controller
	modelName string

	state controller.State

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	width, height int
	ready         bool
	submittedAt   time.Time
	now           func() time.Time
}

// NewModel builds the program model. modelName labels in-flight requests.
func NewModel(ctrl *controller.Controller, modelName string) Model {
	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Prompt = "› "
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = brandStyle

	return Model{
		ctrl:      ctrl,
		modelName: modelName,
		state:     ctrl.Snapshot(),
		input:     ti,
		spinner:   sp,
		viewport:  viewport.New(80, 20),
		now:       time.Now,
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForChange(m.ctrl.Changes()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case changedMsg:
		m.refresh()
		return m, waitForChange(m.ctrl.Changes())

	case executedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.ctrl.SetTab(nextTab(m.state.ActiveTab, 1))
		m.refresh()
		return m, nil
	case "shift+tab":
		m.ctrl.SetTab(nextTab(m.state.ActiveTab, -1))
		m.refresh()
		return m, nil
	case "ctrl+r":
		m.ctrl.ToggleReasoning()
		m.refresh()
		m.resize()
		return m, nil
	case "ctrl+l":
		m.ctrl.ClearLog()
		m.refresh()
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// alt+digit works everywhere; a bare digit is input on the terminal panel.
	key := msg.String()
	if tab, ok := digitTab(strings.TrimPrefix(key, "alt+")); ok &&
		(strings.HasPrefix(key, "alt+") || m.state.ActiveTab != controller.TabTerminal) {
		m.ctrl.SetTab(tab)
		m.refresh()
		return m, nil
	}
	if m.state.ActiveTab != controller.TabTerminal {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value())
	return m, cmd
}

func digitTab(key string) (controller.Tab, bool) {
	if len(key) != 1 || key[0] < '1' || int(key[0]-'1') >= len(controller.Tabs) {
		return "", false
	}
	return controller.Tabs[key[0]-'1'], true
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.HasPrefix(strings.TrimSpace(text), ExecPrefix) {
		command := strings.TrimPrefix(strings.TrimSpace(text), ExecPrefix)
		if strings.TrimSpace(command) == "" || m.state.Processing {
			return m, nil
		}
		m.input.Reset()
		m.submittedAt = m.now()
		ctrl := m.ctrl
		return m, func() tea.Msg {
			ctrl.Execute(context.Background(), command)
			return executedMsg{}
		}
	}
	if m.ctrl.SubmitCommandAsync(text) {
		m.input.Reset()
		m.submittedAt = m.now()
		m.refresh()
	}
	return m, nil
}

func nextTab(current controller.Tab, step int) controller.Tab {
	n := len(controller.Tabs)
	for i, t := range controller.Tabs {
		if t == current {
			return controller.Tabs[((i+step)%n+n)%n]
		}
	}
	return controller.TabTerminal
}

func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom()
	m.state = m.ctrl.Snapshot()
	m.viewport.SetContent(renderLog(m.state.Logs))
	if atBottom || m.state.Processing {
		m.viewport.GotoBottom()
	}
}

func (m *Model) resize() {
	w := m.width
	if m.state.ShowReasoning {
		w -= reasoningWidth + 4
	}
	if w < 20 {
		w = 20
	}
	// header, tabs, suggestions, input, help and spacing
	h := m.height - 9
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.input.Width = w - 4
	m.viewport.SetContent(renderLog(m.state.Logs))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing Aegis..."
	}

	var body string
	switch m.state.ActiveTab {
	case controller.TabDashboard:
		body = renderDashboard(m.state)
	case controller.TabPlan:
		body = renderPlan()
	case controller.TabSecurity:
		body = renderSecurity(m.state)
	case controller.TabMemory:
		body = renderMemory(m.state)
	default:
		body = m.terminalView()
	}

	if m.state.ShowReasoning {
		body = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(m.viewport.Width+2).Render(body), renderReasoning(m.state, reasoningWidth))
	}

	help := helpStyle.Render("tab or alt+1-5 switch · ctrl+r reasoning · ctrl+l clear · !cmd run mapped command · esc quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.state),
		renderTabs(m.state.ActiveTab),
		"",
		body,
		help,
	)
}

func (m Model) terminalView() string {
	var status string
	if m.state.Processing {
		elapsed := m.now().Sub(m.submittedAt).Truncate(time.Second)
		status = fmt.Sprintf("%s %s  ·  %s  ·  Running for %s", m.spinner.View(), brandStyle.Render("Ideating"), m.modelName, elapsed)
	} else if !m.state.ChatReady {
		status = warningStyle.Render("AI offline: set GEMINI_API_KEY to enable chat. Prefix with ! to run mapped commands.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		status,
		renderSuggestions(),
		m.input.View(),
	)
}
