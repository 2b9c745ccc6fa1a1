package cont

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoroutineIDIsStableWithinOneGoroutine(t *testing.T) {
	a := goroutineID()
	b := goroutineID()
	assert.Equal(t, a, b)
	assert.NotZero(t, a)
}

func TestGoroutineIDDiffersAcrossGoroutines(t *testing.T) {
	this := goroutineID()
	other := make(chan uint64, 1)
	go func() { other <- goroutineID() }()
	assert.NotEqual(t, this, <-other)
}
