// Package runlog keeps a bounded, newest-first history of agent status
// messages for the /logs endpoint.
package runlog

import (
	"fmt"
	"sync"
	"time"
)

const DefaultCapacity = 100

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Entry is a single timestamped status message.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
}

// Log is an append-only bounded sequence of entries, most recent first.
// Appending beyond capacity evicts the oldest entry. Safe for
// concurrent use; append-then-truncate happens under one lock.
type Log struct {
	mu      sync.Mutex
	cap     int
	entries []Entry
}

// New returns a log holding at most capacity entries. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{cap: capacity}
}

func (l *Log) Info(format string, args ...interface{}) {
	l.append(LevelInfo, format, args...)
}

func (l *Log) Success(format string, args ...interface{}) {
	l.append(LevelSuccess, format, args...)
}

func (l *Log) Error(format string, args ...interface{}) {
	l.append(LevelError, format, args...)
}

func (l *Log) append(level Level, format string, args ...interface{}) {
	e := Entry{
		Timestamp: time.Now().UTC(),
		Message:   fmt.Sprintf(format, args...),
		Level:     level,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the current number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
