// Package logging provides the Aegis application logger: timestamped lines
// written to a rotating log file with a stdout fallback.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05"

// Options controls where and how log lines are written.
type Options struct {
	Level      string
	Format     string // text or json
	File       string // empty writes to stdout only
	Stdout     bool   // also mirror to stdout when File is set
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger wraps a logrus logger with the Write/Writef helpers used across Aegis.
type Logger struct {
	log  *logrus.Logger
	file *lumberjack.Logger
}

// New builds a Logger from opts. If the log directory cannot be created the
// logger falls back to stdout and records why.
func New(opts Options) *Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat, DisableColors: opts.File != ""})
	}

	logger := &Logger{log: l}
	path := strings.TrimSpace(opts.File)
	if path == "" {
		l.SetOutput(os.Stdout)
		return logger
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.SetOutput(os.Stdout)
		logger.Writef("Error creating log directory (%s): %v", filepath.Dir(path), err)
		return logger
	}
	logger.file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(opts.MaxSizeMB, 50),
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	if opts.Stdout {
		l.SetOutput(io.MultiWriter(logger.file, os.Stdout))
	} else {
		l.SetOutput(logger.file)
	}
	return logger
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{log: l}
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Write records an informational message.
func (l *Logger) Write(message string) {
	if l == nil || l.log == nil {
		fmt.Fprintf(os.Stderr, "%s\n", message)
		return
	}
	l.log.Info(message)
}

// Writef formats and records an informational message.
func (l *Logger) Writef(format string, args ...interface{}) {
	l.Write(fmt.Sprintf(format, args...))
}

// Debugf records a debug-level message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Debugf(format, args...)
}

// Errorf records an error-level message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l == nil || l.log == nil {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
		return
	}
	l.log.Errorf(format, args...)
}

// WithFields returns a structured entry for callers that want key/value context.
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	if l == nil || l.log == nil {
		return logrus.NewEntry(logrus.StandardLogger()).WithFields(fields)
	}
	return l.log.WithFields(fields)
}

// Writer adapts the logger to io.Writer for frameworks like gin and net/http.
// Each write becomes one log line with trailing newlines trimmed.
func (l *Logger) Writer() io.Writer {
	return lineWriter{l: l}
}

type lineWriter struct{ l *Logger }

func (w lineWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg != "" {
		w.l.Write(msg)
	}
	return len(p), nil
}

// Close flushes and closes the rotating file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
