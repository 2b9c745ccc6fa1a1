package iter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"

	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/value"
)

// drainAll pulls it to exhaustion, failing the test if anything suspends
// or errors — every test fixture here only uses non-suspending sources
// and callbacks, so Ready is the only expected outcome at each step.
func drainAll(t *testing.T, it Iterator) []value.Value {
	t.Helper()
	var out []value.Value
	for {
		hn := it.HasNext(nil)
		require.True(t, hn.IsReady(), "HasNext must not suspend or error in this fixture")
		if !hn.Value() {
			return out
		}
		nx := it.Next(nil)
		require.True(t, nx.IsReady(), "Next must not suspend or error in this fixture")
		out = append(out, nx.Value())
	}
}

func ints(vs ...int64) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = value.Int64(v)
	}
	return out
}

func asInt64s(t *testing.T, vs []value.Value) []int64 {
	t.Helper()
	out := make([]int64, len(vs))
	for i, v := range vs {
		n, ok := v.(value.Int64)
		require.True(t, ok, "expected value.Int64, got %T", v)
		out[i] = int64(n)
	}
	return out
}

// syncCallback wraps a plain Go function as a Callback that never
// suspends.
func syncCallback(f func(value.Value) value.Value) Callback {
	return func(resume *cont.Continuation, arg value.Value) cont.Step[value.Value] {
		return cont.Ready(f(arg))
	}
}

// mapValues snapshots a value.Map into a native Go map keyed the same
// way, so tests can assert its contents with maps.Equal regardless of
// insertion order, independently of value.Map's own Keys() ordering
// guarantee.
func mapValues(m *value.Map) map[string]value.Value {
	out := make(map[string]value.Value, len(m.Keys()))
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out[k] = v
	}
	return out
}

func assertMapContentsEqual(t *testing.T, want, got *value.Map) {
	t.Helper()
	require.True(t, maps.Equal(mapValues(want), mapValues(got)))
}
