package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aegis.log")
	l := New(Options{Level: "info", File: path})
	l.Write("hello from aegis")
	l.Writef("executing: %s", "whoami")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "hello from aegis") || !strings.Contains(text, "executing: whoami") {
		t.Fatalf("log file missing messages: %q", text)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aegis.log")
	l := New(Options{Format: "json", File: path})
	l.Write("structured")
	_ = l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"structured"`) {
		t.Fatalf("expected JSON line, got %q", string(data))
	}
}

func TestWriterTrimsNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aegis.log")
	l := New(Options{File: path})
	n, err := l.Writer().Write([]byte("gin line\n"))
	if err != nil || n != len("gin line\n") {
		t.Fatalf("unexpected write result n=%d err=%v", n, err)
	}
	_ = l.Close()
	data, _ := os.ReadFile(path)
	if strings.Count(string(data), "gin line") != 1 {
		t.Fatalf("expected a single gin line, got %q", string(data))
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Debugf("ignored %d", 1)
	if err := l.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
