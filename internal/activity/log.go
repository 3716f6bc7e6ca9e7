// Package activity keeps a bounded in-memory log of user-facing events.
// The buffer is observational only: nothing in the services reads it back.
package activity

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nichelab/brandbrain/internal/models"
)

const maxEntries = 100

type Log struct {
	mu      sync.Mutex
	entries []models.LogEntry
}

func NewLog() *Log {
	return &Log{}
}

// Append records an event, evicting the oldest entry once the buffer
// holds maxEntries.
func (l *Log) Append(level, message string) {
	id, err := gonanoid.New()
	if err != nil {
		return
	}

	entry := models.LogEntry{
		ID:        id,
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > maxEntries {
		l.entries = l.entries[len(l.entries)-maxEntries:]
	}
}

func (l *Log) Info(message string)    { l.Append(models.LogLevelInfo, message) }
func (l *Log) Success(message string) { l.Append(models.LogLevelSuccess, message) }
func (l *Log) Error(message string)   { l.Append(models.LogLevelError, message) }
func (l *Log) Warning(message string) { l.Append(models.LogLevelWarning, message) }

// Entries returns a copy of the buffer, oldest first.
func (l *Log) Entries() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
