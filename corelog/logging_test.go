package corelog

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	mu      sync.Mutex
	entries []Entry
	level   Level
}

func (c *captureLogger) Log(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *captureLogger) IsEnabled(level Level) bool { return level >= c.level }

func TestLogNoOpByDefault(t *testing.T) {
	SetLogger(nil)
	Log(Entry{Level: LevelError, Message: "should be dropped"})
	assert.False(t, Enabled(LevelDebug))
}

func TestLogRoutesToInstalledLogger(t *testing.T) {
	rec := &captureLogger{level: LevelInfo}
	SetLogger(rec)
	t.Cleanup(func() { SetLogger(nil) })

	rid := uuid.New()
	Log(Entry{Level: LevelDebug, Category: "suspend", Message: "below threshold"})
	Log(Entry{Level: LevelWarn, Category: "resume", RuntimeID: rid, FiberID: 7, Message: "above threshold"})

	require.Len(t, rec.entries, 1)
	got := rec.entries[0]
	assert.Equal(t, "resume", got.Category)
	assert.Equal(t, rid, got.RuntimeID)
	assert.Equal(t, uint64(7), got.FiberID)
	assert.False(t, got.Timestamp.IsZero(), "Log must stamp a Timestamp when the caller leaves it zero")
}

func TestEnabledReflectsInstalledLogger(t *testing.T) {
	rec := &captureLogger{level: LevelWarn}
	SetLogger(rec)
	t.Cleanup(func() { SetLogger(nil) })

	assert.False(t, Enabled(LevelInfo))
	assert.True(t, Enabled(LevelError))
}

func TestDefaultLoggerLevelGate(t *testing.T) {
	l := NewDefaultLogger(LevelWarn)
	assert.False(t, l.IsEnabled(LevelInfo))
	assert.True(t, l.IsEnabled(LevelError))

	l.SetLevel(LevelDebug)
	assert.True(t, l.IsEnabled(LevelDebug))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Contains(t, Level(99).String(), "UNKNOWN")
}
