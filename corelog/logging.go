// Package corelog provides the package-level structured logging facility
// shared by cont, iter, reduce, codec, and registry: a pluggable
// interface, a global setter, and a zero-overhead no-op default.
//
// Design decision: a package-level global is appropriate here because
// logging is an infrastructure cross-cutting concern shared by every
// fiber and runtime in a process, and a per-instance logging surface
// would bloat every constructor in this module for no benefit.
package corelog

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a log entry.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// Entry is a single structured log record. Category is one of "suspend",
// "resume", "checkpoint", "iterator", "registry" — the domains this
// module's components log about.
type Entry struct {
	Level     Level
	Category  string
	RuntimeID uuid.UUID
	FiberID   uint64
	Fields    map[string]any
	Message   string
	Err       error
	Timestamp time.Time
}

// Logger is the structured logging interface. Implementations must
// tolerate a zero-value receiver that reports disabled for every level.
type Logger interface {
	Log(e Entry)
	IsEnabled(level Level) bool
}

var global struct {
	sync.RWMutex
	logger Logger
}

// SetLogger installs the process-wide logger. Passing nil restores the
// no-op default.
func SetLogger(l Logger) {
	global.Lock()
	defer global.Unlock()
	global.logger = l
}

func current() Logger {
	global.RLock()
	defer global.RUnlock()
	if global.logger != nil {
		return global.logger
	}
	return noOpLogger{}
}

// Log emits e via the installed logger, or is a no-op if none is
// installed or the level is disabled. The IsEnabled check happens before
// the entry is stamped and forwarded; a Fields map the caller built is
// allocated either way, so a caller can check Enabled first to skip it.
func Log(e Entry) {
	l := current()
	if !l.IsEnabled(e.Level) {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	l.Log(e)
}

// Enabled reports whether level would currently be logged, letting
// callers skip building a Fields map entirely on the hot path.
func Enabled(level Level) bool {
	return current().IsEnabled(level)
}

type noOpLogger struct{}

func (noOpLogger) Log(Entry)            {}
func (noOpLogger) IsEnabled(Level) bool { return false }

// DefaultLogger is a minimal Logger writing one line per entry to an
// io.Writer-like *os.File, gated by an atomically-stored minimum level.
type DefaultLogger struct {
	level atomic.Int32
	mu    sync.Mutex
	Out   *os.File
}

// NewDefaultLogger constructs a DefaultLogger writing to stdout at the
// given minimum level.
func NewDefaultLogger(level Level) *DefaultLogger {
	l := &DefaultLogger{Out: os.Stdout}
	l.level.Store(int32(level))
	return l
}

// SetLevel dynamically changes the minimum log level.
func (l *DefaultLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *DefaultLogger) IsEnabled(level Level) bool {
	if l == nil || l.Out == nil {
		return false
	}
	return int32(level) >= l.level.Load()
}

func (l *DefaultLogger) Log(e Entry) {
	if !l.IsEnabled(e.Level) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.Out, "[%s] %s", e.Level, e.Category)
	if e.RuntimeID != uuid.Nil {
		fmt.Fprintf(l.Out, " runtime=%s", e.RuntimeID)
	}
	fmt.Fprintf(l.Out, " fiber=%d %s", e.FiberID, e.Message)
	if e.Err != nil {
		fmt.Fprintf(l.Out, " err=%v", e.Err)
	}
	for k, v := range e.Fields {
		fmt.Fprintf(l.Out, " %s=%v", k, v)
	}
	fmt.Fprintln(l.Out)
}
