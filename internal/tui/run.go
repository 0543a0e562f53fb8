package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"aegis/internal/controller"
	"aegis/internal/models"
)

// Run starts the full-screen program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *controller.Controller, modelName string) error {
	p := tea.NewProgram(NewModel(ctrl, modelName), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// RunLine reads one prompt per line from in and prints new log entries to
// out. "/clear" resets the log, "/quit" stops, and a leading "!" runs the
// facade's mapped command instead of chat.
func RunLine(ctx context.Context, ctrl *controller.Controller, in io.Reader, out io.Writer) error {
	printed := 0
	flush := func() {
		logs := ctrl.Snapshot().Logs
		if printed > len(logs) {
			printed = 0
		}
		for _, e := range logs[printed:] {
			fmt.Fprintln(out, formatPlain(e))
		}
		printed = len(logs)
	}
	flush()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := scanner.Text()
		switch trimmed := strings.TrimSpace(line); {
		case trimmed == "/quit":
			return nil
		case trimmed == "/clear":
			ctrl.ClearLog()
			printed = 0
		case strings.HasPrefix(trimmed, ExecPrefix):
			ctrl.Execute(ctx, strings.TrimPrefix(trimmed, ExecPrefix))
		default:
			ctrl.SubmitCommand(ctx, line)
		}
		flush()
	}
	return scanner.Err()
}

func formatPlain(e models.LogEntry) string {
	marker := " "
	switch e.Type {
	case models.LogTypeCommand:
		marker = ">"
	case models.LogTypeError:
		marker = "!"
	case models.LogTypeSuccess:
		marker = "+"
	case models.LogTypeWarning:
		marker = "~"
	}
	return fmt.Sprintf("[%s] %s %s", e.Timestamp, marker, e.Message)
}
