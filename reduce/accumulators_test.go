package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/iter"
	"github.com/jactl-go/corert/value"
)

func TestReduceAccumulatorFoldsViaUserCallback(t *testing.T) {
	src := iter.FromSlice(ints(1, 2, 3))
	concat := syncCallback(func(pair value.Value) value.Value {
		elems := pair.(*value.List).Elems
		acc := int64(elems[0].(value.Int64))
		elem := int64(elems[1].(value.Int64))
		return value.Int64(acc + elem*elem)
	})
	step := Drive(nil, src, NewReduce(concat), value.Int64(0))
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(1+4+9), step.Value())
}

func TestAvgDividesSumByCount(t *testing.T) {
	src := iter.FromSlice(ints(2, 4, 6))
	step := Drive(nil, src, NewAvg(), value.Int64(0))
	require.True(t, step.IsReady())
	got, err := value.DivideInt(value.Int64(12), 3)
	require.NoError(t, err)
	assert.Equal(t, got, step.Value())
}

func TestAvgOfEmptyIsNull(t *testing.T) {
	src := iter.FromSlice(nil)
	step := Drive(nil, src, NewAvg(), value.Int64(0))
	require.True(t, step.IsReady())
	assert.Equal(t, value.Value(value.Null{}), step.Value())
}

func TestMinFindsSmallest(t *testing.T) {
	src := iter.FromSlice(ints(5, 1, 9, 3))
	step := Drive(nil, src, NewMin(nil), nil)
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(1), step.Value())
}

func TestMaxFindsLargest(t *testing.T) {
	src := iter.FromSlice(ints(5, 1, 9, 3))
	step := Drive(nil, src, NewMax(nil), nil)
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(9), step.Value())
}

func TestMinOfEmptyIsNull(t *testing.T) {
	src := iter.FromSlice(nil)
	step := Drive(nil, src, NewMin(nil), nil)
	require.True(t, step.IsReady())
	assert.Equal(t, value.Value(value.Null{}), step.Value())
}

func TestMinWithKeyFnPicksSmallestByKey(t *testing.T) {
	src := iter.FromSlice(ints(5, -9, 3))
	negateAbs := func(resume *cont.Continuation, arg value.Value) cont.Step[value.Value] {
		n := int64(arg.(value.Int64))
		if n < 0 {
			n = -n
		}
		return cont.Ready(value.Value(value.Int64(-n)))
	}
	step := Drive(nil, src, NewMin(negateAbs), nil)
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(-9), step.Value())
}

// TestMinWithKeyFnSurvivesSuspension mirrors
// TestGroupBySurvivesKeyFnSuspension: cmp suspends once per element, and
// the element being compared must not be lost (replaced by the Null
// placeholder driveState.run passes through on resume).
func TestMinWithKeyFnSurvivesSuspension(t *testing.T) {
	var pendingKey value.Value
	absKey := func(resume *cont.Continuation, arg value.Value) cont.Step[value.Value] {
		if resume != nil {
			return cont.Ready(pendingKey)
		}
		n := int64(arg.(value.Int64))
		if n < 0 {
			n = -n
		}
		pendingKey = value.Int64(n)
		return cont.SuspendedStep[value.Value](cont.NewSuspend(cont.NewContinuation("absKey", 1, nil), nil))
	}

	src := iter.FromSlice(ints(5, -9, 3))
	d := &driveState{upstream: src, accum: NewMin(absKey)}

	step := d.run(nil)
	for !step.IsReady() {
		require.False(t, step.IsError(), "unexpected error: %v", step.Err())
		step = d.run(step.Suspend().Continuation)
	}
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(3), step.Value())
}

func TestJoinConcatenatesWithSeparator(t *testing.T) {
	src := iter.FromSlice([]value.Value{value.String("a"), value.String("b"), value.String("c")})
	step := Drive(nil, src, NewJoin(", "), nil)
	require.True(t, step.IsReady())
	assert.Equal(t, value.Value(value.String("a, b, c")), step.Value())
}

func TestJoinStringifiesNonStringElements(t *testing.T) {
	src := iter.FromSlice(ints(1, 2))
	step := Drive(nil, src, NewJoin("-"), nil)
	require.True(t, step.IsReady())
	assert.Equal(t, value.Value(value.String("1-2")), step.Value())
}

func TestGroupByBucketsByKeyPreservingEncounterOrder(t *testing.T) {
	src := iter.FromSlice(ints(1, 2, 3, 4, 5, 6))
	keyFn := syncCallback(func(v value.Value) value.Value {
		if v.(value.Int64)%2 == 0 {
			return value.String("even")
		}
		return value.String("odd")
	})
	step := Drive(nil, src, NewGroupBy(keyFn), nil)
	require.True(t, step.IsReady())
	m := step.Value().(*value.Map)
	assert.Equal(t, []string{"odd", "even"}, m.Keys())
	odd, _ := m.Get("odd")
	assert.Equal(t, ints(1, 3, 5), odd.(*value.List).Elems)
	even, _ := m.Get("even")
	assert.Equal(t, ints(2, 4, 6), even.(*value.List).Elems)
}

// TestGroupBySurvivesKeyFnSuspension drives groupBy's accumulator through
// a keyFn that suspends once per element, checking that the element being
// keyed is not lost (replaced by the Null placeholder driveState.run
// passes through on resume) while keyFn's own Continuation is threaded
// back through to completion.
func TestGroupBySurvivesKeyFnSuspension(t *testing.T) {
	var pendingKey value.Value
	keyFn := func(resume *cont.Continuation, arg value.Value) cont.Step[value.Value] {
		if resume != nil {
			return cont.Ready(pendingKey)
		}
		if int64(arg.(value.Int64))%2 == 0 {
			pendingKey = value.String("even")
		} else {
			pendingKey = value.String("odd")
		}
		return cont.SuspendedStep[value.Value](cont.NewSuspend(cont.NewContinuation("keyFn", 1, nil), nil))
	}

	src := iter.FromSlice(ints(1, 2, 3))
	d := &driveState{upstream: src, accum: NewGroupBy(keyFn)}

	step := d.run(nil)
	for !step.IsReady() {
		require.False(t, step.IsError(), "unexpected error: %v", step.Err())
		step = d.run(step.Suspend().Continuation)
	}

	m := step.Value().(*value.Map)
	assert.Equal(t, []string{"odd", "even"}, m.Keys())
	odd, _ := m.Get("odd")
	assert.Equal(t, ints(1, 3), odd.(*value.List).Elems)
	even, _ := m.Get("even")
	assert.Equal(t, ints(2), even.(*value.List).Elems)
}

func TestGroupByRejectsNonStringKey(t *testing.T) {
	src := iter.FromSlice(ints(1))
	keyFn := syncCallback(func(v value.Value) value.Value { return v })
	step := Drive(nil, src, NewGroupBy(keyFn), nil)
	assert.True(t, step.IsError())
}

func TestTransposePadsShortRowsWithNull(t *testing.T) {
	row1 := value.NewList(ints(1, 2, 3))
	row2 := value.NewList(ints(4, 5))
	src := iter.FromSlice([]value.Value{row1, row2})
	step := Drive(nil, src, NewTranspose(), nil)
	require.True(t, step.IsReady())
	out := step.Value().(*value.List).Elems
	require.Len(t, out, 3)
	assert.Equal(t, ints(1, 4), out[0].(*value.List).Elems)
	assert.Equal(t, ints(2, 5), out[1].(*value.List).Elems)
	col2 := out[2].(*value.List).Elems
	assert.Equal(t, value.Int64(3), col2[0])
	assert.Equal(t, value.Value(value.Null{}), col2[1])
}

func TestTransposeRejectsNonListElement(t *testing.T) {
	src := iter.FromSlice(ints(1))
	step := Drive(nil, src, NewTranspose(), nil)
	assert.True(t, step.IsError())
}
