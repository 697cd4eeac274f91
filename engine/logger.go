package engine

import (
	"log"
	"sync"
	"time"
)

// CallLogger provides debug logging for outbound engine calls
type CallLogger struct {
	enabled bool
	mu      sync.RWMutex
}

// NewCallLogger creates a new engine call logger
func NewCallLogger(enabled bool) *CallLogger {
	return &CallLogger{
		enabled: enabled,
	}
}

// IsEnabled returns whether call logging is enabled
func (l *CallLogger) IsEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

// SetEnabled enables or disables call logging
func (l *CallLogger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// LogCall logs a completed engine call with execution time and, when known,
// the result count
func (l *CallLogger) LogCall(method, path string, status int, duration time.Duration, count int64) {
	if !l.IsEnabled() {
		return
	}

	if count >= 0 {
		log.Printf("[ENGINE] [%.2fms] [status:%d] [count:%d] %s %s",
			float64(duration.Nanoseconds())/1e6,
			status,
			count,
			method,
			path)
	} else {
		log.Printf("[ENGINE] [%.2fms] [status:%d] %s %s",
			float64(duration.Nanoseconds())/1e6,
			status,
			method,
			path)
	}
}

// LogError logs an engine call that failed before a response arrived
func (l *CallLogger) LogError(method, path string, duration time.Duration, err error) {
	if !l.IsEnabled() {
		return
	}

	log.Printf("[ENGINE] [%.2fms] [ERROR] %s %s - %v",
		float64(duration.Nanoseconds())/1e6,
		method,
		path,
		err)
}
