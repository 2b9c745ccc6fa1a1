package cont

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

func TestBlockingTaskIsBlocking(t *testing.T) {
	task := Blocking("src", 1, func() (value.Value, error) { return value.Int32(1), nil })
	assert.True(t, task.IsBlocking())
	assert.Equal(t, "src", task.Source)
	assert.Equal(t, 1, task.Offset)
}

func TestNonBlockingTaskIsNotBlocking(t *testing.T) {
	task := NonBlocking("src", 2, "payload", func(ctx context.Context, data any, resume Resumer) {})
	assert.False(t, task.IsBlocking())
}

func TestResumerDeliversOnce(t *testing.T) {
	var delivered value.Value
	var deliveredErr error
	resumer := newResumer(func(v value.Value, err error) {
		delivered = v
		deliveredErr = err
	})

	err := resumer(value.Int32(7), nil)
	require.NoError(t, err)
	assert.Equal(t, value.Int32(7), delivered)
	assert.NoError(t, deliveredErr)
}

func TestResumerRejectsSecondCall(t *testing.T) {
	resumer := newResumer(func(v value.Value, err error) {})

	require.NoError(t, resumer(value.Int32(1), nil))
	err := resumer(value.Int32(2), nil)
	assert.ErrorIs(t, err, corerr.ErrResumerAlreadyCalled)
}
