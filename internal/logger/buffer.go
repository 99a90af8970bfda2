package logger

import (
	"encoding/json"
)

const defaultBufferSize = 500

// LogEntry represents a parsed log entry served by the logs endpoint.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LogBuffer implements io.Writer and keeps the most recent zerolog entries.
type LogBuffer struct {
	buffer *RingBuffer[LogEntry]
}

// NewLogBuffer creates a buffer holding up to size entries.
func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &LogBuffer{buffer: NewRingBuffer[LogEntry](size)}
}

// Write implements io.Writer. It receives JSON log entries from zerolog.
func (b *LogBuffer) Write(p []byte) (n int, err error) {
	entry, parseErr := parseLogEntry(p)
	if parseErr != nil {
		return len(p), nil //nolint:nilerr // malformed entries are dropped
	}
	b.buffer.Push(entry)
	return len(p), nil
}

// GetRecentLogs returns all buffered log entries.
func (b *LogBuffer) GetRecentLogs() []LogEntry {
	return b.buffer.GetAll()
}

func parseLogEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{}
	take := func(key string) string {
		v, _ := raw[key].(string)
		delete(raw, key)
		return v
	}
	entry.Timestamp = take(zerologTimeField)
	entry.Level = take("level")
	entry.Component = take("component")
	entry.Message = take("message")

	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry, nil
}

const zerologTimeField = "time"
