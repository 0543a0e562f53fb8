package models

// LogType classifies a terminal log entry.
type LogType string

const (
	LogTypeInfo    LogType = "info"
	LogTypeSuccess LogType = "success"
	LogTypeWarning LogType = "warning"
	LogTypeError   LogType = "error"
	LogTypeCommand LogType = "command"
)

// Valid reports whether t is one of the known log types.
func (t LogType) Valid() bool {
	switch t {
	case LogTypeInfo, LogTypeSuccess, LogTypeWarning, LogTypeError, LogTypeCommand:
		return true
	}
	return false
}

// LogEntry is one line of the chat/terminal history. Entries are never
// mutated after creation.
type LogEntry struct {
	ID        string  `json:"id"`
	Type      LogType `json:"type"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
}

// CloneLog returns a copy of the log slice (entries are values, so a shallow copy is enough).
func CloneLog(entries []LogEntry) []LogEntry {
	if entries == nil {
		return nil
	}
	return append([]LogEntry(nil), entries...)
}
