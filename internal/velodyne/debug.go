package velodyne

import (
	"io"
	"log"
	"sync"
)

// LogLevel names one of the three logging streams.
type LogLevel int

const (
	// LogOps routes to the ops stream: actionable warnings/errors and lifecycle events.
	LogOps LogLevel = iota
	// LogDiag routes to the diag stream: day-to-day decode diagnostics.
	LogDiag
	// LogTrace routes to the trace stream: high-frequency packet/firing telemetry.
	LogTrace
)

// LogWriters holds the io.Writers for each logging stream.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

var (
	mu          sync.RWMutex
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures all three logging streams at once. Pass nil
// for any writer to disable that stream.
func SetLogWriters(w LogWriters) {
	mu.Lock()
	defer mu.Unlock()
	opsLogger = newLogger("[velodyne] ", w.Ops)
	diagLogger = newLogger("[velodyne] ", w.Diag)
	traceLogger = newLogger("[velodyne] ", w.Trace)
}

// SetLogWriter configures a single logging stream. Pass nil to disable.
func SetLogWriter(level LogLevel, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	l := newLogger("[velodyne] ", w)
	switch level {
	case LogOps:
		opsLogger = l
	case LogDiag:
		diagLogger = l
	case LogTrace:
		traceLogger = l
	}
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

// Opsf logs to the ops stream.
func Opsf(format string, args ...interface{}) {
	mu.RLock()
	l := opsLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

// Diagf logs to the diag stream.
func Diagf(format string, args ...interface{}) {
	mu.RLock()
	l := diagLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

// Tracef logs to the trace stream.
func Tracef(format string, args ...interface{}) {
	mu.RLock()
	l := traceLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}
