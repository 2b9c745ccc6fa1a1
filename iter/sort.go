package iter

import (
	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/value"
)

// sortOp implements resumable merge sort: eagerly
// materialize, then a stable bottom-up (iterative, width-doubling) merge
// sort, since bottom-up avoids the recursion depth a top-down
// implementation would need to persist across a comparator suspension.
// Every loop index that the merge step needs to resume exactly where it
// left off — width, outerIndex (which pair of runs is being merged), and
// the merge cursor (i1, i2, dstPos, start1, end1, end2; end1 is also
// where the second run starts) — lives
// on this struct, which is itself the Continuation.Frame threaded back
// in on resume.
type sortOp struct {
	upstream Iterator
	cmp      Callback // nil => natural ordering via value.Compare

	drain *drainer
	src   []value.Value // current pass's read side
	buf   []value.Value // current pass's write side

	width      int
	outerIndex int

	// merge cursor, saved across a comparator suspension
	i1, i2, dstPos     int
	start1, end1, end2 int
}

const (
	sortStateDrain   = 0
	sortStateCompare = 1
)

// Sort drives upstream to completion and returns it sorted, using cmp as
// the comparator if non-nil (cmp must return a negative/zero/positive
// numeric Value) or natural ordering (value.Compare) otherwise.
func Sort(resume *cont.Continuation, upstream Iterator, cmp Callback) cont.Step[value.Value] {
	if resume != nil {
		if prev, ok := resume.Frame.(*sortOp); ok {
			return prev.run(resume)
		}
	}
	op := &sortOp{upstream: upstream, cmp: cmp, drain: &drainer{upstream: upstream}}
	return op.run(resume)
}

func (s *sortOp) run(resume *cont.Continuation) cont.Step[value.Value] {
	if resume != nil && resume.MethodLocation == sortStateCompare {
		return s.resumeMerge(resume)
	}

	var drainResume *cont.Continuation
	if resume != nil && resume.MethodLocation == sortStateDrain {
		drainResume = resume.Outer
	}
	materialized := s.drain.Run(drainResume)
	if materialized.IsError() {
		return cont.Err[value.Value](materialized.Err())
	}
	if !materialized.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(s, sortStateDrain, materialized.Suspend()))
	}

	s.src = materialized.Value()
	s.buf = make([]value.Value, len(s.src))
	s.width = 1
	s.outerIndex = 0
	return s.mergePass()
}

// mergePass runs the bottom-up merge sort over s.src (which is swapped
// with s.buf between passes), returning once fully sorted or suspended
// mid-comparison.
func (s *sortOp) mergePass() cont.Step[value.Value] {
	n := len(s.src)
	for s.width < n {
		for s.outerIndex < n {
			s.start1 = s.outerIndex
			mid := min(s.outerIndex+s.width, n)
			s.end1 = mid
			s.end2 = min(s.outerIndex+2*s.width, n)
			s.i1, s.i2, s.dstPos = s.start1, mid, s.start1

			step := s.mergeRun()
			if !step.IsReady() {
				return step
			}
			s.outerIndex += 2 * s.width
		}
		s.src, s.buf = s.buf, s.src
		s.width *= 2
		s.outerIndex = 0
	}
	return cont.Ready(value.Value(value.NewList(s.src)))
}

// mergeRun merges the two runs [start1,end1) and [end1,end2) of s.src
// into s.buf starting at dstPos, suspending and resuming via the cursor
// state stored on s if the comparator suspends.
func (s *sortOp) mergeRun() cont.Step[value.Value] {
	for s.i1 < s.end1 && s.i2 < s.end2 {
		cmp, step := s.compare(s.src[s.i1], s.src[s.i2])
		if !step.IsReady() {
			return step
		}
		s.placeOne(cmp)
	}
	for s.i1 < s.end1 {
		s.buf[s.dstPos] = s.src[s.i1]
		s.i1++
		s.dstPos++
	}
	for s.i2 < s.end2 {
		s.buf[s.dstPos] = s.src[s.i2]
		s.i2++
		s.dstPos++
	}
	return cont.Ready(value.Value(value.Null{}))
}

// signOf normalizes a comparator result Value to a sign: comparators
// may return any numeric type, and the natural-ordering fallback uses
// the same widened Compare the rest of the core uses.
func signOf(v value.Value) int {
	c, err := value.Compare(v, value.Int32(0))
	if err != nil {
		return 0
	}
	return c
}

func (s *sortOp) placeOne(cmp int) {
	if cmp <= 0 {
		s.buf[s.dstPos] = s.src[s.i1]
		s.i1++
	} else {
		s.buf[s.dstPos] = s.src[s.i2]
		s.i2++
	}
	s.dstPos++
}

// compare returns the comparator's sign and a Ready step, or a
// suspended/errored step if the comparator call itself suspended or
// failed. The caller must check step.IsReady() before trusting the sign.
func (s *sortOp) compare(a, b value.Value) (int, cont.Step[value.Value]) {
	if s.cmp == nil {
		c, err := value.Compare(a, b)
		if err != nil {
			return 0, cont.Err[value.Value](err)
		}
		return c, cont.Ready(value.Value(value.Null{}))
	}
	res := s.cmp(nil, value.NewList([]value.Value{a, b}))
	if res.IsError() {
		return 0, cont.Err[value.Value](res.Err())
	}
	if !res.IsReady() {
		return 0, cont.SuspendedStep[value.Value](cont.Propagate(s, sortStateCompare, res.Suspend()))
	}
	return signOf(res.Value()), cont.Ready(value.Value(value.Null{}))
}

func (s *sortOp) resumeMerge(resume *cont.Continuation) cont.Step[value.Value] {
	res := s.cmp(resume.Outer, value.Null{})
	if res.IsError() {
		return cont.Err[value.Value](res.Err())
	}
	if !res.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(s, sortStateCompare, res.Suspend()))
	}
	s.placeOne(signOf(res.Value()))

	step := s.mergeRun()
	if !step.IsReady() {
		return step
	}
	s.outerIndex += 2 * s.width
	return s.mergePass()
}
