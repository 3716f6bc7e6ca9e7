package models

import "time"

type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // info, success, error, warning
	Message   string    `json:"message"`
}

const (
	LogLevelInfo    = "info"
	LogLevelSuccess = "success"
	LogLevelError   = "error"
	LogLevelWarning = "warning"
)
