package cont

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jactl-go/corert/corelog"
	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

// Op is the shape of a top-level suspendable operation: a terminal
// operation over an iterator pipeline, or any other library entry point
// built from the even/odd state-machine discipline. resume is nil on the
// first call and the just-delivered Continuation on every subsequent
// call; Op is responsible for dispatching on resume.MethodLocation via
// whatever frame-local switch the concrete operation implements.
type Op func(resume *Continuation) Step[value.Value]

// Outcome is the result of starting or resuming a Fiber.
type Outcome struct {
	Done      bool
	Suspended bool
	Value     value.Value
	Err       error
}

// Fiber owns one Continuation chain exclusively: a fiber either runs
// to completion on the caller's goroutine or suspends, handing control
// back to the host. It is single-threaded cooperative — Resume must not
// be called concurrently with itself or with Start, enforced here by mu
// (in production this additionally relies on the host never doing so,
// since a fiber owns its Continuation chain exclusively).
type Fiber struct {
	ID uint64

	state   *fastState
	mu      sync.Mutex
	op      Op
	pending *Continuation
	rt      *Runtime
}

func newFiber(id uint64, rt *Runtime) *Fiber {
	return &Fiber{ID: id, state: newFastState(FiberRunnable), rt: rt}
}

// State returns the fiber's current lifecycle state.
func (f *Fiber) State() FiberState {
	return f.state.Load()
}

// runtimeID returns the owning Runtime's correlation id, or the zero
// uuid.UUID if this fiber was constructed without one (e.g. in tests).
func (f *Fiber) runtimeID() uuid.UUID {
	if f.rt == nil {
		return uuid.Nil
	}
	return f.rt.ID
}

// Start begins running op on the calling goroutine. It returns once op
// either completes (Outcome.Done) or suspends (Outcome.Suspended) —
// suspend_blocking immediately throws control out of the current call
// chain, which this Go translation realizes as Start returning rather
// than blocking for the async result.
func (f *Fiber) Start(op Op) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.state.TryTransition(FiberRunnable, FiberRunning) {
		return Outcome{Err: corerr.NewRuntimeError("fiber is not runnable", "", 0)}
	}
	f.op = op
	return f.step(nil)
}

// Resume delivers an async result to a suspended fiber's pending
// Continuation and continues execution from the matching odd state: the
// function reads its locals back out, takes the result slot, and jumps
// straight to state 2k+1.
func (f *Fiber) Resume(delivered value.Value, deliveredErr error) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.state.TryTransition(FiberSuspended, FiberRunning) {
		return Outcome{Err: corerr.ErrFiberNotSuspended}
	}
	resume := f.pending
	f.pending = nil
	innermost(resume).Result = delivered
	innermost(resume).ResultErr = deliveredErr

	corelog.Log(corelog.Entry{Level: corelog.LevelDebug, Category: "resume", RuntimeID: f.runtimeID(), FiberID: f.ID, Message: "resuming continuation", Fields: map[string]any{"goroutine": goroutineID()}})
	return f.step(resume)
}

// Snapshot returns the fiber's pending Continuation chain for checkpoint
// purposes, or nil if the fiber is not currently suspended. The codec
// package uses this to serialize every live Continuation in the chain:
// each frame's MethodLocation, Locals and, where the Frame implements
// codec.FrameCodec, its encoded payload. ObjLocals are not serialized.
func (f *Fiber) Snapshot() *Continuation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Restore reinflates a suspended fiber from a previously-snapshotted
// Continuation chain and Op, without running it — the caller then calls
// Resume (optionally after invoking a recover callback) to continue
// execution.
func Restore(id uint64, rt *Runtime, op Op, pending *Continuation) *Fiber {
	f := newFiber(id, rt)
	f.op = op
	f.pending = pending
	f.state.Store(FiberSuspended)
	return f
}

func (f *Fiber) step(resume *Continuation) Outcome {
	s := f.op(resume)
	if s.IsReady() {
		f.state.Store(FiberCompleted)
		corelog.Log(corelog.Entry{Level: corelog.LevelDebug, Category: "resume", RuntimeID: f.runtimeID(), FiberID: f.ID, Message: "fiber completed"})
		return Outcome{Done: true, Value: s.Value()}
	}
	if s.IsError() {
		f.state.Store(FiberCompleted)
		corelog.Log(corelog.Entry{Level: corelog.LevelError, Category: "resume", RuntimeID: f.runtimeID(), FiberID: f.ID, Message: "fiber failed"})
		return Outcome{Done: true, Err: s.Err()}
	}

	susp := s.Suspend()
	f.pending = susp.Continuation
	f.state.Store(FiberSuspended)

	corelog.Log(corelog.Entry{Level: corelog.LevelDebug, Category: "suspend", RuntimeID: f.runtimeID(), FiberID: f.ID, Message: "fiber suspended", Fields: map[string]any{"goroutine": goroutineID()}})

	if susp.Task != nil && f.rt != nil {
		f.rt.dispatch(f, susp.Task)
	}
	return Outcome{Suspended: true}
}
