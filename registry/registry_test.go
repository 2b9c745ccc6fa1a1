package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

func constImpl(v value.Value) Impl {
	return func(resume *cont.Continuation, recv value.Value, args []value.Value, source string, offset int) cont.Step[value.Value] {
		return cont.Ready(v)
	}
}

func TestRegisterAndLookupMethod(t *testing.T) {
	r := New()
	r.RegisterMethod("List", "size", constImpl(value.Int64(3)), nil, 0)

	h, err := r.LookupMethod("List", "size")
	require.NoError(t, err)
	assert.Equal(t, "size", h.Name)
	assert.Equal(t, "List", h.ReceiverType)
}

func TestRegisterAndLookupFunction(t *testing.T) {
	r := New()
	r.RegisterFunction("sqrt", constImpl(value.Float64(2)), nil, 0)

	h, err := r.LookupMethod("", "sqrt")
	require.NoError(t, err)
	assert.Equal(t, "sqrt", h.Name)
	assert.Equal(t, "", h.ReceiverType)
}

func TestLookupMethodFallsBackToGlobalFunction(t *testing.T) {
	r := New()
	r.RegisterFunction("len", constImpl(value.Int64(0)), nil, 0)

	h, err := r.LookupMethod("String", "len")
	require.NoError(t, err)
	assert.Equal(t, "len", h.Name)
}

func TestLookupMethodMissReturnsUnknownMethod(t *testing.T) {
	r := New()
	_, err := r.LookupMethod("List", "nope")
	assert.ErrorIs(t, err, corerr.ErrUnknownMethod)
}

func TestRegisterMethodReplacesEarlierRegistration(t *testing.T) {
	r := New()
	r.RegisterMethod("List", "size", constImpl(value.Int64(1)), nil, 0)
	r.RegisterMethod("List", "size", constImpl(value.Int64(2)), nil, 0)

	h, err := r.LookupMethod("List", "size")
	require.NoError(t, err)
	step := h.Invoke(nil, value.Null{}, nil, "", 0)
	assert.Equal(t, value.Int64(2), step.Value())
}

func TestHandleInvokeZeroesLocationWithoutNeedsLocationFlag(t *testing.T) {
	var gotSource string
	var gotOffset int
	h := &Handle{
		Name: "f",
		Impl: func(resume *cont.Continuation, recv value.Value, args []value.Value, source string, offset int) cont.Step[value.Value] {
			gotSource, gotOffset = source, offset
			return cont.Ready(value.Value(value.Null{}))
		},
	}
	h.Invoke(nil, value.Null{}, nil, "caller.jactl", 42)
	assert.Equal(t, "", gotSource)
	assert.Equal(t, 0, gotOffset)
}

func TestHandleInvokePassesLocationWithNeedsLocationFlag(t *testing.T) {
	var gotSource string
	var gotOffset int
	h := &Handle{
		Name:  "f",
		Flags: NeedsLocation,
		Impl: func(resume *cont.Continuation, recv value.Value, args []value.Value, source string, offset int) cont.Step[value.Value] {
			gotSource, gotOffset = source, offset
			return cont.Ready(value.Value(value.Null{}))
		},
	}
	h.Invoke(nil, value.Null{}, nil, "caller.jactl", 42)
	assert.Equal(t, "caller.jactl", gotSource)
	assert.Equal(t, 42, gotOffset)
}

func TestDefaultIsProcessWideSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
