// Package activity records confirmed task mutations as an append-only JSONL log.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskdeck/internal/filelock"
)

const (
	logFileName   = "activity.jsonl"
	lockFileName  = ".activity.lock"
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// Actions recorded in the log.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionComment = "comment"
)

// Entry represents a single activity log entry.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    int       `json:"task_id"`
	Detail    string    `json:"detail"`
	PID       int       `json:"pid,omitempty"`
}

// Recorder receives mutation events. The controller depends on this
// interface so tests and disabled logging can pass Nop.
type Recorder interface {
	Record(action string, taskID int, detail string)
}

// Nop discards every entry.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(string, int, string) {}

// Log appends entries to <dir>/activity.jsonl.
type Log struct {
	dir string
	pid int
	now func() time.Time
}

// New returns a Log writing into dir. Entries are stamped with the current
// process ID so a process can tell its own writes from other processes'.
func New(dir string) *Log {
	return &Log{dir: dir, pid: os.Getpid(), now: time.Now}
}

// PID returns the process ID stamped on recorded entries.
func (l *Log) PID() int {
	return l.pid
}

// Path returns the log file path.
func (l *Log) Path() string {
	return filepath.Join(l.dir, logFileName)
}

// Record appends an entry. Errors are discarded because logging must never
// fail a task operation.
func (l *Log) Record(action string, taskID int, detail string) {
	_ = l.Append(Entry{
		Timestamp: l.now(),
		Action:    action,
		TaskID:    taskID,
		Detail:    detail,
		PID:       l.pid,
	})
}

// Append writes one entry under the activity lock and truncates the log when
// it exceeds maxLogEntries.
func (l *Log) Append(entry Entry) error {
	return filelock.With(filepath.Join(l.dir, lockFileName), func() error {
		if err := appendLine(l.Path(), entry); err != nil {
			return err
		}
		// Truncate if needed (best-effort; errors are non-fatal).
		_ = truncateIfNeeded(l.Path(), maxLogEntries)
		return nil
	})
}

// Read returns all entries in file order.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

// Last returns the newest entry. ok is false when the log is empty or missing.
func (l *Log) Last() (entry Entry, ok bool, err error) {
	entries, err := l.Read()
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[len(entries)-1], true, nil
}

// ExternalChange reports whether the newest entry was written by another
// process. A missing or unreadable log counts as no change.
func (l *Log) ExternalChange() bool {
	last, ok, err := l.Last()
	return err == nil && ok && last.PID != l.pid
}

func appendLine(path string, entry Entry) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted config dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}
	return nil
}

// truncateIfNeeded rewrites the log keeping only the newest limit lines.
func truncateIfNeeded(path string, limit int) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}

	if len(lines) <= limit {
		return nil
	}

	lines = lines[len(lines)-limit:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}
