package logger

import (
	"context"
	"sync"
)

// Entry is a single log entry captured by TestLogger.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

type capture struct {
	mu      sync.Mutex
	entries []Entry
}

// TestLogger captures log entries in memory so tests can assert on them.
// Loggers derived via WithFields share the same capture buffer.
type TestLogger struct {
	cap    *capture
	fields map[string]interface{}
}

// NewTestLogger creates a new capturing test logger.
func NewTestLogger() *TestLogger {
	return &TestLogger{
		cap:    &capture{},
		fields: map[string]interface{}{},
	}
}

func (l *TestLogger) record(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	l.cap.mu.Lock()
	defer l.cap.mu.Unlock()
	l.cap.entries = append(l.cap.entries, Entry{Level: level, Message: msg, Fields: merged})
}

// Debug captures a debug-level entry.
func (l *TestLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

// Info captures an info-level entry.
func (l *TestLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

// Warn captures a warn-level entry.
func (l *TestLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

// Error captures an error-level entry.
func (l *TestLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

// WithFields returns a logger sharing the same capture buffer with extra fields.
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{cap: l.cap, fields: merged}
}

// Entries returns a copy of all captured entries.
func (l *TestLogger) Entries() []Entry {
	l.cap.mu.Lock()
	defer l.cap.mu.Unlock()
	out := make([]Entry, len(l.cap.entries))
	copy(out, l.cap.entries)
	return out
}
