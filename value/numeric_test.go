package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidenCommonRank(t *testing.T) {
	wa, wb, err := Widen(Int32(1), Int64(2))
	require.NoError(t, err)
	assert.Equal(t, Int64(1), wa)
	assert.Equal(t, Int64(2), wb)

	_, _, err = Widen(Int32(1), String("x"))
	assert.Error(t, err)
}

func TestAddWidensToHighestRank(t *testing.T) {
	sum, err := Add(Int32(2), Float64(1.5))
	require.NoError(t, err)
	assert.Equal(t, Float64(3.5), sum)

	sum, err = Add(NewDecimalFromInt(2), Int32(3))
	require.NoError(t, err)
	d, ok := sum.(Decimal)
	require.True(t, ok)
	assert.Equal(t, "5", d.String())
}

func TestDivideIntProducesDecimal(t *testing.T) {
	avg, err := DivideInt(Int64(9), 2)
	require.NoError(t, err)
	d, ok := avg.(Decimal)
	require.True(t, ok)
	assert.Equal(t, "4.5", d.String())

	_, err = DivideInt(Int64(1), 0)
	assert.Error(t, err)
}

func TestCompareAcrossNumericTypes(t *testing.T) {
	c, err := Compare(Int32(1), Int64(2))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(Float64(3), NewDecimalFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = Compare(NewDecimalFromInt(5), Int32(4))
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}
