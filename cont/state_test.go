package cont

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFastStateTryTransition(t *testing.T) {
	s := newFastState(FiberRunnable)
	assert.Equal(t, FiberRunnable, s.Load())

	assert.True(t, s.TryTransition(FiberRunnable, FiberRunning))
	assert.Equal(t, FiberRunning, s.Load())

	assert.False(t, s.TryTransition(FiberRunnable, FiberSuspended), "transition from a stale 'from' state must fail")
	assert.Equal(t, FiberRunning, s.Load())
}

func TestFastStateStoreOverridesUnconditionally(t *testing.T) {
	s := newFastState(FiberRunnable)
	s.Store(FiberCompleted)
	assert.Equal(t, FiberCompleted, s.Load())
}

func TestFiberStateString(t *testing.T) {
	assert.Equal(t, "Runnable", FiberRunnable.String())
	assert.Equal(t, "Running", FiberRunning.String())
	assert.Equal(t, "Suspended", FiberSuspended.String())
	assert.Equal(t, "Completed", FiberCompleted.String())
	assert.Equal(t, "Unknown", FiberState(99).String())
}
