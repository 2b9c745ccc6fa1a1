package cont

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushChainsOuter(t *testing.T) {
	inner := NewContinuation("inner-frame", 0, nil)
	outer := Push("outer-frame", 2, inner)

	assert.Equal(t, "outer-frame", outer.Frame)
	assert.Equal(t, 2, outer.MethodLocation)
	assert.Same(t, inner, outer.Outer)
	assert.False(t, outer.IsInnermost())
	assert.True(t, inner.IsInnermost())
}

func TestInnermostWalksToEnd(t *testing.T) {
	leaf := NewContinuation("leaf", 1, nil)
	mid := Push("mid", 2, leaf)
	top := Push("top", 4, mid)

	assert.Same(t, leaf, innermost(top))
	assert.Same(t, leaf, innermost(leaf))
}

func TestPropagateCarriesTaskAndWrapsFrame(t *testing.T) {
	task := &AsyncTask{}
	leaf := NewContinuation("leaf", 1, nil)
	susp := NewSuspend(leaf, task)

	next := Propagate("caller-frame", 3, susp)
	require.NotNil(t, next)
	assert.Same(t, task, next.Task)
	assert.Equal(t, "caller-frame", next.Continuation.Frame)
	assert.Equal(t, 3, next.Continuation.MethodLocation)
	assert.Same(t, leaf, next.Continuation.Outer)
}

func TestResultSlotsLiveOnInnermostOnly(t *testing.T) {
	leaf := NewContinuation("leaf", 1, nil)
	chain := Push("mid", 2, leaf)
	top := Push("top", 4, chain)

	innermost(top).Result = "delivered"
	assert.Equal(t, "delivered", leaf.Result)
	assert.Nil(t, chain.Result)
	assert.Nil(t, top.Result)
}
