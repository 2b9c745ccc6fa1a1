package iter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jactl-go/corert/value"
)

func TestReverseFlipsOrder(t *testing.T) {
	src := FromSlice(ints(1, 2, 3))
	step := Reverse(nil, nil, src)
	require.True(t, step.IsReady())
	assert.Equal(t, ints(3, 2, 1), step.Value().(*value.List).Elems)
}

func TestSubListPositiveBounds(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4, 5))
	step := SubList(nil, src, 1, 3)
	require.True(t, step.IsReady())
	assert.Equal(t, ints(2, 3), step.Value().(*value.List).Elems)
}

func TestSubListNegativeIndices(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4, 5))
	step := SubList(nil, src, -2, 5)
	require.True(t, step.IsReady())
	assert.Equal(t, ints(4, 5), step.Value().(*value.List).Elems)
}

func TestSubListClampsOutOfRange(t *testing.T) {
	src := FromSlice(ints(1, 2, 3))
	step := SubList(nil, src, 0, 100)
	require.True(t, step.IsReady())
	assert.Equal(t, ints(1, 2, 3), step.Value().(*value.List).Elems)
}

func TestSubListErrorsOnOutOfRangeNegativeStart(t *testing.T) {
	src := FromSlice(ints(1, 2, 3))
	step := SubList(nil, src, -10, 3)
	require.True(t, step.IsError())
	assert.Contains(t, step.Err().Error(), "-7")
}

func TestCollectWithoutMapper(t *testing.T) {
	src := FromSlice(ints(1, 2, 3))
	step := Collect(nil, src, nil)
	require.True(t, step.IsReady())
	assert.Equal(t, ints(1, 2, 3), step.Value().(*value.List).Elems)
}

func TestCollectWithMapper(t *testing.T) {
	src := FromSlice(ints(1, 2, 3))
	step := Collect(nil, src, syncCallback(func(v value.Value) value.Value {
		return value.Int64(v.(value.Int64) * 10)
	}))
	require.True(t, step.IsReady())
	assert.Equal(t, ints(10, 20, 30), step.Value().(*value.List).Elems)
}

func TestCollectEntriesBuildsInsertionOrderedMap(t *testing.T) {
	src := FromSlice([]value.Value{
		value.NewList([]value.Value{value.String("b"), value.Int64(2)}),
		value.NewList([]value.Value{value.String("a"), value.Int64(1)}),
	})
	step := CollectEntries(nil, src, nil)
	require.True(t, step.IsReady())
	m := step.Value().(*value.Map)
	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, value.Int64(1), v)

	want := value.NewMap()
	want.Set("a", value.Int64(1))
	want.Set("b", value.Int64(2))
	assertMapContentsEqual(t, want, m)
}

func TestCollectEntriesRejectsNonPairElement(t *testing.T) {
	src := FromSlice(ints(1))
	step := CollectEntries(nil, src, nil)
	assert.True(t, step.IsError())
}

func TestCollectEntriesRejectsNonStringKey(t *testing.T) {
	src := FromSlice([]value.Value{
		value.NewList([]value.Value{value.Int64(1), value.Int64(2)}),
	})
	step := CollectEntries(nil, src, nil)
	assert.True(t, step.IsError())
}

func TestEachRunsForSideEffectsOnly(t *testing.T) {
	src := FromSlice(ints(1, 2, 3))
	var seen []int64
	step := Each(nil, src, syncCallback(func(v value.Value) value.Value {
		seen = append(seen, int64(v.(value.Int64)))
		return value.Null{}
	}))
	require.True(t, step.IsReady())
	assert.Equal(t, value.Value(value.Null{}), step.Value())
	assert.Equal(t, []int64{1, 2, 3}, seen)
}

func TestSizeCountsElements(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4))
	step := Size(nil, src)
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(4), step.Value())
}

func TestSizeOfEmptySourceIsZero(t *testing.T) {
	src := FromSlice(nil)
	step := Size(nil, src)
	require.True(t, step.IsReady())
	assert.Equal(t, value.Int64(0), step.Value())
}
