package logging

import (
	"log"
	"os"
	"strings"
)

var debugEnabled = os.Getenv("AL_DEBUG") == "true"

func logf(subsystem, format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
}

// Info logs an informational message (always shown)
func Info(subsystem, format string, args ...any) {
	logf(subsystem, format, args...)
}

// Warn logs a recoverable problem (always shown)
func Warn(subsystem, format string, args ...any) {
	logf(subsystem, "WARN "+format, args...)
}

// Debug logs a debug message (only shown if AL_DEBUG=true)
func Debug(subsystem, format string, args ...any) {
	if debugEnabled {
		logf(subsystem, format, args...)
	}
}

// Truncate flattens a string to one line and shortens it for logging
func Truncate(s string, maxLen int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
