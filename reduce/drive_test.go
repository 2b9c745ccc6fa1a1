package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/iter"
	"github.com/jactl-go/corert/value"
)

func ints(vs ...int64) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = value.Int64(v)
	}
	return out
}

func syncCallback(f func(value.Value) value.Value) iter.Callback {
	return func(resume *cont.Continuation, arg value.Value) cont.Step[value.Value] {
		return cont.Ready(f(arg))
	}
}

func TestDriveSumsViaAccumulator(t *testing.T) {
	src := iter.FromSlice(ints(1, 2, 3, 4))
	step := Drive(nil, src, NewSum(), value.Int64(0))
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(10), step.Value())
}

func TestDriveOnEmptySourceReturnsInitial(t *testing.T) {
	src := iter.FromSlice(nil)
	step := Drive(nil, src, NewSum(), value.Int64(0))
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(0), step.Value())
}

func TestDrivePropagatesAccumulatorError(t *testing.T) {
	src := iter.FromSlice([]value.Value{value.Int64(1), value.String("nope")})
	step := Drive(nil, src, NewSum(), value.Int64(0))
	assert.True(t, step.IsError())
}
