package logger

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	mu           sync.RWMutex
)

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		level := "info"
		if os.Getenv("DEBUG") == "true" {
			level = "debug"
		} else if os.Getenv("LOG_LEVEL") != "" {
			level = os.Getenv("LOG_LEVEL")
		}

		globalLogger = NewWithWriter(Config{
			Level:  level,
			Format: "console",
		}, os.Stdout)
	}
	return globalLogger
}

// SetLogger replaces the global logger. Components capture the logger when
// they are constructed, so call this before building them.
func SetLogger(logger *Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
	SetGlobalLogger(logger)
}
