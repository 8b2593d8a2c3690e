// Package logbook persists funnel activity to a simple text file under
// .reviewhut/logs/ so wizard and submission outcomes can be inspected after
// the session ends.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook appends timestamped, leveled lines to a single log file. It keeps
// the file handle open for the lifetime of the session; Close releases it.
type Logbook struct {
	mu    *sync.Mutex
	path  string
	file  *os.File
	scope string
}

// New creates (or reuses) the log file at the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open log file: %w", err)
	}
	return &Logbook{path: path, file: file, mu: &sync.Mutex{}}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the file handle.
func (l *Logbook) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// WithScope returns a logbook that prefixes every entry with the given
// component name (e.g. "wizard", "submission"). The underlying file and
// lock are shared with the parent.
func (l *Logbook) WithScope(scope string) *Logbook {
	if l == nil {
		return nil
	}
	return &Logbook{path: l.path, file: l.file, scope: strings.TrimSpace(scope), mu: l.mu}
}

// Append writes a single entry to the logbook. Write failures are dropped;
// logging must never take the funnel down.
func (l *Logbook) Append(level Level, message string) {
	if l == nil || l.file == nil {
		return
	}
	message = strings.TrimSpace(message)
	if l.scope != "" {
		message = fmt.Sprintf("[%s] %s", l.scope, message)
	}
	line := fmt.Sprintf("%s %-5s %s\n",
		time.Now().UTC().Format(time.RFC3339),
		string(level),
		message,
	)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.file.WriteString(line)
}

// Tail returns up to maxLines of the most recent log entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
