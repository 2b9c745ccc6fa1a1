package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagsHasDetectsSetBits(t *testing.T) {
	f := AsyncInstance | VarArgs
	assert.True(t, f.Has(AsyncInstance))
	assert.True(t, f.Has(VarArgs))
	assert.False(t, f.Has(AsyncParams))
	assert.False(t, f.Has(NeedsLocation))
}

func TestFlagsZeroValueHasNothing(t *testing.T) {
	var f Flags
	assert.False(t, f.Has(AsyncInstance))
	assert.False(t, f.Has(VarArgs))
}
