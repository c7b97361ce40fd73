// Package rolllog records the human-readable trace of every roll made while
// generating a battlefield.
package rolllog

import (
	"fmt"
	"sync"
)

// Separator is the blank entry used to visually group related traces
const Separator = ""

// Log is an append-only ordered sequence of trace strings.
// Each generation run owns its own Log; readers only observe it.
type Log struct {
	mu      sync.RWMutex
	entries []string
}

// New creates an empty roll log
func New() *Log {
	return &Log{}
}

// FromEntries rebuilds a log from previously persisted entries
func FromEntries(entries []string) *Log {
	l := &Log{entries: make([]string, len(entries))}
	copy(l.entries, entries)
	return l
}

// Append adds a trace entry to the end of the log
func (l *Log) Append(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, msg)
}

// Appendf adds a formatted trace entry
func (l *Log) Appendf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

// Separator appends a blank entry
func (l *Log) Separator() {
	l.Append(Separator)
}

// Entries returns a copy of the accumulated trace
func (l *Log) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Truncate drops every entry after the first n. It is used to take back a
// trace whose operation failed part way.
func (l *Log) Truncate(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n < 0 {
		n = 0
	}
	if n < len(l.entries) {
		l.entries = l.entries[:n]
	}
}

// Last returns the most recent entry, if any
func (l *Log) Last() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1], true
}
