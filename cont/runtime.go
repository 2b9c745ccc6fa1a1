package cont

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jactl-go/corert/corelog"
	"github.com/jactl-go/corert/value"
)

// Runtime is the host-facing scheduler: a worker pool that runs Blocking
// AsyncTask thunks, and the dispatch point for NonBlocking tasks'
// initiate callbacks. It mirrors the same external-task/worker split an
// event loop's Submit/SubmitInternal plus I/O poller implements, minus
// the raw epoll/kqueue readiness polling, which has no referent here:
// suspend_non_blocking's initiate callback is already the abstraction
// boundary, so a host wiring real async I/O does it below Runtime, by
// constructing AsyncTasks, not by asking Runtime to poll file
// descriptors itself.
type Runtime struct {
	// ID stably identifies this Runtime across process boundaries, for
	// log correlation and for checkpoints restored in a different
	// process than the one that took them.
	ID uuid.UUID

	jobs chan func()
	wg   sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}

	nextFiberID atomic.Uint64
}

// NewRuntime constructs a Runtime with the given options, starting its
// worker pool immediately (workers are process-wide infrastructure, not
// lazily spun up per fiber, mirroring eventloop.New's eager poller
// initialization).
func NewRuntime(opts ...Option) *Runtime {
	cfg := resolveOptions(opts)

	rt := &Runtime{
		ID:     uuid.New(),
		jobs:   make(chan func(), cfg.jobQueueDepth),
		closed: make(chan struct{}),
	}
	for i := 0; i < cfg.workers; i++ {
		rt.wg.Add(1)
		go rt.workerLoop()
	}
	return rt
}

func (rt *Runtime) workerLoop() {
	defer rt.wg.Done()
	for {
		select {
		case job, ok := <-rt.jobs:
			if !ok {
				return
			}
			rt.safeRun(job)
		case <-rt.closed:
			return
		}
	}
}

// safeRun executes job with panic recovery: a single library function
// panicking must not take down the whole worker pool.
func (rt *Runtime) safeRun(job func()) {
	defer func() {
		if r := recover(); r != nil {
			corelog.Log(corelog.Entry{
				Level:     corelog.LevelError,
				Category:  "registry",
				RuntimeID: rt.ID,
				Message:   "worker panic recovered",
				Fields:    map[string]any{"panic": r},
			})
		}
	}()
	job()
}

// NewFiber allocates a Fiber owned by this Runtime, with a process-wide
// unique ID.
func (rt *Runtime) NewFiber() *Fiber {
	return newFiber(rt.nextFiberID.Add(1), rt)
}

// RestoreFiber reinflates a suspended Fiber under this Runtime, see
// Restore.
func (rt *Runtime) RestoreFiber(op Op, pending *Continuation) *Fiber {
	return Restore(rt.nextFiberID.Add(1), rt, op, pending)
}

// dispatch routes a suspended fiber's AsyncTask: Blocking thunks run on
// the worker pool; NonBlocking tasks' initiate is called once, supplied a
// Resumer that delivers back into the fiber when the host's async event
// plumbing completes.
func (rt *Runtime) dispatch(f *Fiber, task *AsyncTask) {
	if task.IsBlocking() {
		rt.jobs <- func() {
			v, err := task.work()
			f.Resume(v, err)
		}
		return
	}

	resumer := newResumer(func(v value.Value, err error) {
		f.Resume(v, err)
	})
	task.initiate(Context(), task.data, resumer)
}

// Close stops the worker pool, waiting for in-flight jobs to finish.
func (rt *Runtime) Close() {
	rt.closeOnce.Do(func() {
		close(rt.closed)
		close(rt.jobs)
	})
	rt.wg.Wait()
}

// Context is the context passed to NonBlocking initiate callbacks. A
// future version could thread per-fiber cancellation through here; for
// now it is context.Background(), since cancellation is not first-class
// here.
var Context = context.Background
