// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package validate

import "strings"

// LogLevel is a zerolog level name accepted in configuration.
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

func (l LogLevel) String() string { return string(l) }

// ParseLogLevel accepts level names case-insensitively.
func ParseLogLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", ErrInvalidLogLevel
	}
	return level, nil
}

var ErrInvalidLogLevel = &Error{
	Field:   "LogLevel",
	Message: "must be one of: trace, debug, info, warn, error",
}
