package cont

import "sync/atomic"

// FiberState is the lifecycle state of a Fiber. A lock-free CAS state
// machine avoids a mutex on the hot suspend/resume path.
type FiberState uint32

const (
	// FiberRunnable: created and not yet started. Resume moves a fiber
	// from FiberSuspended straight to FiberRunning, not through this state.
	FiberRunnable FiberState = iota
	// FiberRunning: currently executing on some goroutine.
	FiberRunning
	// FiberSuspended: has thrown a Suspend and is waiting for its
	// Continuation to be delivered a result.
	FiberSuspended
	// FiberCompleted: finished (successfully or with an error); its
	// Continuation chain is discarded.
	FiberCompleted
)

func (s FiberState) String() string {
	switch s {
	case FiberRunnable:
		return "Runnable"
	case FiberRunning:
		return "Running"
	case FiberSuspended:
		return "Suspended"
	case FiberCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// fastState is a lock-free state cell, mirroring eventloop.FastState.
type fastState struct {
	v atomic.Uint32
}

func newFastState(initial FiberState) *fastState {
	s := &fastState{}
	s.v.Store(uint32(initial))
	return s
}

func (s *fastState) Load() FiberState {
	return FiberState(s.v.Load())
}

func (s *fastState) Store(state FiberState) {
	s.v.Store(uint32(state))
}

func (s *fastState) TryTransition(from, to FiberState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
