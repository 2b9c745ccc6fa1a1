package cont

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

func TestFiberStartCompletesSynchronously(t *testing.T) {
	f := newFiber(1, nil)
	outcome := f.Start(func(resume *Continuation) Step[value.Value] {
		return Ready(value.Value(value.Int32(5)))
	})
	assert.True(t, outcome.Done)
	assert.Equal(t, value.Int32(5), outcome.Value)
	assert.Equal(t, FiberCompleted, f.State())
}

func TestFiberStartPropagatesError(t *testing.T) {
	f := newFiber(1, nil)
	boom := corerr.NewRuntimeError("boom", "", 0)
	outcome := f.Start(func(resume *Continuation) Step[value.Value] {
		return Err[value.Value](boom)
	})
	assert.True(t, outcome.Done)
	assert.Same(t, error(boom), outcome.Err)
	assert.Equal(t, FiberCompleted, f.State())
}

func TestFiberStartTwiceFails(t *testing.T) {
	f := newFiber(1, nil)
	f.Start(func(resume *Continuation) Step[value.Value] {
		return Ready(value.Value(value.Null{}))
	})
	outcome := f.Start(func(resume *Continuation) Step[value.Value] {
		return Ready(value.Value(value.Null{}))
	})
	assert.Error(t, outcome.Err)
}

func TestFiberSuspendThenResumeWithNoRuntime(t *testing.T) {
	f := newFiber(1, nil)

	outcome := f.Start(func(resume *Continuation) Step[value.Value] {
		if resume != nil {
			return Ready(resume.Result.(value.Value))
		}
		c := NewContinuation("frame", 1, nil)
		return SuspendedStep[value.Value](NewSuspend(c, nil))
	})
	require.True(t, outcome.Suspended)
	assert.Equal(t, FiberSuspended, f.State())
	assert.NotNil(t, f.Snapshot())

	final := f.Resume(value.Int32(11), nil)
	assert.True(t, final.Done)
	assert.Equal(t, value.Int32(11), final.Value)
	assert.Equal(t, FiberCompleted, f.State())
}

func TestFiberResumeWithoutSuspendFails(t *testing.T) {
	f := newFiber(1, nil)
	outcome := f.Resume(value.Int32(1), nil)
	assert.ErrorIs(t, outcome.Err, corerr.ErrFiberNotSuspended)
}

func TestRestoreReinflatesSuspendedFiber(t *testing.T) {
	pending := NewContinuation("frame", 1, nil)
	op := func(resume *Continuation) Step[value.Value] {
		return Ready(resume.Result.(value.Value))
	}

	f := Restore(9, nil, op, pending)
	assert.Equal(t, FiberSuspended, f.State())
	assert.Same(t, pending, f.Snapshot())

	outcome := f.Resume(value.Int32(3), nil)
	assert.True(t, outcome.Done)
	assert.Equal(t, value.Int32(3), outcome.Value)
}
