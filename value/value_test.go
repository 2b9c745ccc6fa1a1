package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrder(t *testing.T) {
	l := NewList([]Value{Int32(1), Int32(2), Int32(3)})
	assert.Equal(t, 3, len(l.Elems))
}

func TestResolveIndex(t *testing.T) {
	tests := []struct {
		i, size int
		want    int
		ok      bool
	}{
		{0, 3, 0, true},
		{2, 3, 2, true},
		{3, 3, 3, false},
		{-1, 3, 2, true},
		{-3, 3, 0, true},
		{-4, 3, -1, false},
	}
	for _, tt := range tests {
		got, ok := ResolveIndex(tt.i, tt.size)
		assert.Equal(t, tt.ok, ok, "i=%d size=%d", tt.i, tt.size)
		if ok {
			assert.Equal(t, tt.want, got, "i=%d size=%d", tt.i, tt.size)
		}
	}
}

func TestMapInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("c", Int32(3))
	m.Set("a", Int32(1))
	m.Set("b", Int32(2))
	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())

	m.Set("a", Int32(10))
	assert.Equal(t, []string{"c", "a", "b"}, m.Keys(), "re-setting an existing key must not move it")
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, Int32(10), v)

	m.Delete("a")
	assert.Equal(t, []string{"c", "b"}, m.Keys())
	assert.Equal(t, 2, m.Len())
	_, ok = m.Get("a")
	assert.False(t, ok)
}

func TestArrayLenByKind(t *testing.T) {
	a := &Array{Kind: ArrayElemInt32, I32s: []int32{1, 2, 3, 4}}
	assert.Equal(t, 4, a.Len())

	b := &Array{Kind: ArrayElemValue, Data: []Value{Int32(1), Int32(2)}}
	assert.Equal(t, 2, b.Len())
}

func TestDecimalString(t *testing.T) {
	d, err := NewDecimal("3.5")
	require.NoError(t, err)
	assert.Equal(t, "3.5", d.String())

	var zero Decimal
	assert.Equal(t, "0", zero.String())
}
