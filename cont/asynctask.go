package cont

import (
	"context"
	"sync"

	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

// AsyncTask is either Blocking (carries a thunk executed on a worker) or
// NonBlocking (carries a callback that initiates work and will call a
// resumer). Source/Offset carry location metadata for error reporting.
type AsyncTask struct {
	Source string
	Offset int

	blocking bool
	work     func() (value.Value, error)
	initiate func(ctx context.Context, data any, resume Resumer)
	data     any
}

// Blocking constructs a Blocking AsyncTask: work runs on a host-provided
// worker (see Runtime.Submit), and its return value/error becomes the
// Continuation's delivered Result/ResultErr.
func Blocking(source string, offset int, work func() (value.Value, error)) *AsyncTask {
	return &AsyncTask{Source: source, Offset: offset, blocking: true, work: work}
}

// NonBlocking constructs a NonBlocking AsyncTask: initiate is called once
// by the runtime with a Resumer that the host's async event plumbing
// calls (at most once) when the operation completes.
func NonBlocking(source string, offset int, data any, initiate func(ctx context.Context, data any, resume Resumer)) *AsyncTask {
	return &AsyncTask{Source: source, Offset: offset, initiate: initiate, data: data}
}

// IsBlocking reports whether the task is the Blocking variant.
func (t *AsyncTask) IsBlocking() bool { return t.blocking }

// Resumer is the one-shot callback delivered to a NonBlocking task's
// initiate function: a resumer closure delivered to suspend_non_blocking
// may be invoked at most once, and a second call must be detected and
// rejected — enforced here via the same settle-once guard a promise
// implementation uses for Resolve/Reject, collapsed to a simple boolean
// since a Resumer has no separate pending/fulfilled/rejected
// observability surface of its own.
type Resumer func(v value.Value, err error) error

func newResumer(deliver func(v value.Value, err error)) Resumer {
	var mu sync.Mutex
	called := false
	return func(v value.Value, err error) error {
		mu.Lock()
		defer mu.Unlock()
		if called {
			return corerr.ErrResumerAlreadyCalled
		}
		called = true
		deliver(v, err)
		return nil
	}
}
