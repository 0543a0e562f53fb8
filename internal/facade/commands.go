package facade

import "fmt"

// CommandTable maps a literal command string to its canned output. Keys are
// matched verbatim, case-sensitive, with no trimming.
type CommandTable map[string]string

// DefaultCommands returns a fresh copy of the built-in command table.
func DefaultCommands() CommandTable {
	return CommandTable{
		"ls":           "src/\npublic/\npackage.json\nvite.config.ts\nserver.ts",
		"git status":   "On branch main\nYour branch is up to date with 'origin/main'.\n\nnothing to commit, working tree clean",
		"npm test":     "PASS src/App.test.tsx\nPASS src/components/Terminal.test.tsx\n\nTest Suites: 2 passed, 2 total\nTests:       12 passed, 12 total\nSnapshots:   0 total\nTime:        1.452 s",
		"whoami":       "aegis-agent",
		"aegis health": "Health Report:\n- Coverage: 84%\n- Lint: 100%\n- Security: 0 issues\n- Debt: 2.4h",
		"aegis plan":   "1. [DONE] Recon project structure\n2. [ACTIVE] Implement advanced UI features\n3. [PENDING] Self-healing validation\n4. [PENDING] Final security audit",
	}
}

// Lookup returns the mapped output for command, or the not-found message.
func (t CommandTable) Lookup(command string) (string, bool) {
	if out, ok := t[command]; ok {
		return out, true
	}
	return NotFoundMessage(command), false
}

// NotFoundMessage is the deterministic reply for an unmapped command.
func NotFoundMessage(command string) string {
	return fmt.Sprintf("Command not found: %s\nTip: Try 'aegis health' or 'aegis plan'", command)
}

func (t CommandTable) clone() CommandTable {
	out := make(CommandTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
