package iter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jactl-go/corert/value"
)

func TestUniqueDropsDuplicatesByEquality(t *testing.T) {
	src := FromSlice(ints(1, 2, 2, 3, 1))
	out := Unique(src)
	assert.Equal(t, ints(1, 2, 3), drainAll(t, out))
}

func TestSkipDropsLeadingN(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4, 5))
	out := Skip(src, 2)
	assert.Equal(t, ints(3, 4, 5), drainAll(t, out))
}

func TestSkipZeroIsNoOp(t *testing.T) {
	src := FromSlice(ints(1, 2, 3))
	out := Skip(src, 0)
	assert.Equal(t, ints(1, 2, 3), drainAll(t, out))
}

func TestSkipMoreThanLengthYieldsEmpty(t *testing.T) {
	src := FromSlice(ints(1, 2))
	out := Skip(src, 5)
	assert.Empty(t, drainAll(t, out))
}

func TestSkipNegativeDropsTrailingN(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4, 5))
	out := Skip(src, -2)
	assert.Equal(t, ints(1, 2, 3), drainAll(t, out))
}

func TestLimitEmitsFirstN(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4, 5))
	out := Limit(src, 3)
	assert.Equal(t, ints(1, 2, 3), drainAll(t, out))
}

func TestLimitLargerThanSourceYieldsAll(t *testing.T) {
	src := FromSlice(ints(1, 2))
	out := Limit(src, 10)
	assert.Equal(t, ints(1, 2), drainAll(t, out))
}

func TestLimitNegativeDropsTrailingN(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4, 5))
	out := Limit(src, -2)
	assert.Equal(t, ints(1, 2, 3), drainAll(t, out))
}

func TestGroupedBatchesDisjoint(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4, 5))
	out := drainAll(t, Grouped(src, 2))
	require.Len(t, out, 3)
	batch0 := out[0].(*value.List)
	assert.Equal(t, ints(1, 2), batch0.Elems)
	batch1 := out[1].(*value.List)
	assert.Equal(t, ints(3, 4), batch1.Elems)
	batch2 := out[2].(*value.List)
	assert.Equal(t, ints(5), batch2.Elems)
}

func TestGroupedZeroIsIdentity(t *testing.T) {
	src := FromSlice(ints(1, 2))
	out := Grouped(src, 0)
	assert.Equal(t, ints(1, 2), drainAll(t, out))
}

func TestGroupedNegativeIsCallerError(t *testing.T) {
	src := FromSlice(ints(1))
	out := Grouped(src, -1)
	hn := out.HasNext(nil)
	assert.True(t, hn.IsError())
}

func TestWindowSlidingOverlaps(t *testing.T) {
	src := FromSlice(ints(1, 2, 3, 4))
	out := drainAll(t, WindowSliding(src, 2))
	require.Len(t, out, 3)
	assert.Equal(t, ints(1, 2), out[0].(*value.List).Elems)
	assert.Equal(t, ints(2, 3), out[1].(*value.List).Elems)
	assert.Equal(t, ints(3, 4), out[2].(*value.List).Elems)
}
