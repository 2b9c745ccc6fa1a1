package cont

// Continuation carries: a resumption handle (the Frame, identifying which
// operator/library-function frame to re-enter), a MethodLocation integer
// (even = synchronous branch about to execute, odd = waiting for a prior
// async result to land), scratch arrays of primitive and object locals,
// an Outer link, and — once resumed — a single Result slot.
// Continuations form a singly linked chain headed by the outermost frame
// (the one the Fiber holds): each Outer link points one call inward, to
// the Continuation of the call that frame was waiting on, and the chain
// ends at the frame that issued the suspension. No link runs from an
// inner frame back to its caller.
type Continuation struct {
	// Frame identifies which state machine owns this frame (an iterator
	// operator, a reducer accumulator step, a library function). It is
	// an opaque value supplied by the frame itself and type-asserted back
	// by that same frame on resume — a Go stand-in for a resumption
	// handle, since Go has no continuation-of-a-function primitive to
	// capture directly.
	Frame any

	// MethodLocation is the even/odd state index a frame uses to pick
	// which of its internal call sites to re-enter on resume.
	MethodLocation int

	// Locals holds primitive scratch state (the source's long[] locals).
	Locals []int64

	// ObjLocals holds object scratch state (the source's Object[]
	// locals). The operators in this module do not use it: the merge
	// sort, the drainer and the reducer driver keep their state on their
	// Frame value instead.
	ObjLocals []any

	// Outer links to the Continuation of the inner call this frame was
	// waiting on when it suspended; it is nil on the frame that issued the
	// suspension.
	Outer *Continuation

	// Result is populated by the runtime immediately before resuming, on
	// the innermost frame only: the delivered value of the AsyncTask.
	// Frames that merely propagated the suspension keep a nil Result.
	Result any
	// ResultErr carries an error result, set instead of Result when the
	// delivered outcome was a failure (the library function's state
	// machine must check this before consuming Result).
	ResultErr error
}

// NewContinuation starts a new Continuation chain at the point of
// suspension, wrapping outer as the next link.
func NewContinuation(frame any, resumeLocation int, outer *Continuation) *Continuation {
	return &Continuation{Frame: frame, MethodLocation: resumeLocation, Outer: outer}
}

// Push wraps inner as the Outer of a newly created Continuation for the
// calling frame: each iterator operator that catches a Suspend from its
// upstream call only needs to call Push with its own frame state and
// resume location, without re-deriving the rest of the chain.
func Push(frame any, resumeLocation int, inner *Continuation) *Continuation {
	return &Continuation{Frame: frame, MethodLocation: resumeLocation, Outer: inner}
}

// Suspend is the control-flow signal carrying a Continuation. It is not
// an error — suspension is a control-flow signal, not a failure — so it
// is returned, not thrown, via Step[T].Suspend().
type Suspend struct {
	Continuation *Continuation
	// Task originates at the suspend_blocking/suspend_non_blocking call
	// site that caused this suspension and is carried unchanged by every
	// enclosing frame's Propagate call, so that by the time the
	// outermost Op's Step reaches the Fiber, Task still identifies the
	// one thing that needs dispatching.
	Task *AsyncTask
}

// NewSuspend constructs a Suspend for a fresh suspension point.
func NewSuspend(c *Continuation, task *AsyncTask) *Suspend {
	return &Suspend{Continuation: c, Task: task}
}

// Propagate is what an iterator operator or reducer frame calls when its
// upstream/inner call returned a suspended Step: it wraps the inner
// Suspend's Continuation as the Outer link of a new frame for the calling
// operator, carrying the same Task outward unchanged. This is the Go
// translation of "catch a Suspend from the inner call,
// push a frame for the current state, and rethrow" — except rethrow
// becomes a plain returned value.
func Propagate(frame any, resumeLocation int, inner *Suspend) *Suspend {
	return NewSuspend(Push(frame, resumeLocation, inner.Continuation), inner.Task)
}

// innermost walks to the end of the Outer chain: the frame that actually
// issued suspend_blocking/suspend_non_blocking and whose Result/ResultErr
// the runtime must populate on delivery.
func innermost(c *Continuation) *Continuation {
	for c.Outer != nil {
		c = c.Outer
	}
	return c
}

// IsInnermost reports whether c is the frame that issued the suspension
// directly, as opposed to one merely re-entering an inner call on resume.
func (c *Continuation) IsInnermost() bool { return c.Outer == nil }
