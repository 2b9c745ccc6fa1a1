package reduce

import (
	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/iter"
	"github.com/jactl-go/corert/value"
)

// Kind names the terminal operations whose Accumulators this package
// supplies. Drive itself takes no Kind: it is parameterized only by the
// Accumulator, which supplies the fold step while Drive shares its
// suspend/resume plumbing across all of them.
type Kind byte

const (
	KindReduce Kind = iota
	KindSum
	KindAvg
	KindMin
	KindMax
	KindJoin
	KindGroupBy
	KindTranspose
)

// Accumulator is the per-Kind fold behavior Drive threads upstream
// elements through. Step may itself suspend (e.g. reduce's user-supplied
// acc, groupBy's keyFn, or min/max's optional cmp), so it takes and may
// return a Continuation the same way a Callback does.
type Accumulator interface {
	// Step folds elem into the accumulator, returning the new
	// accumulator state, or a suspended/errored Step if folding itself
	// suspends (only reduce, groupBy's keyFn, and min/max's cmp call a
	// user callback; sum/avg/join/transpose always resolve
	// synchronously).
	Step(resume *cont.Continuation, acc value.Value, elem value.Value) cont.Step[value.Value]
	// Finish transforms the final accumulator into the terminal result
	// (e.g. avg divides sum by count; everything else is typically
	// identity).
	Finish(acc value.Value, count int) (value.Value, error)
}

type driveState struct {
	upstream iter.Iterator
	accum    Accumulator
	acc      value.Value
	count    int
}

const (
	driveStateHasNext = 0
	driveStateNext    = 1
	driveStateStep    = 2
)

// Drive pulls upstream to completion, folding each element through accum
// starting from initial, and returns accum.Finish of the result.
func Drive(resume *cont.Continuation, upstream iter.Iterator, accum Accumulator, initial value.Value) cont.Step[value.Value] {
	if resume != nil {
		if prev, ok := resume.Frame.(*driveState); ok {
			return prev.run(resume)
		}
	}
	d := &driveState{upstream: upstream, accum: accum, acc: initial}
	return d.run(resume)
}

func (d *driveState) run(resume *cont.Continuation) cont.Step[value.Value] {
	if resume != nil && resume.MethodLocation == driveStateStep {
		s := d.accum.Step(resume.Outer, d.acc, value.Null{})
		return d.finishStep(s)
	}

	var hnArg, nextArg *cont.Continuation
	resumeAtNext := resume != nil && resume.MethodLocation == driveStateNext
	if resume != nil {
		if resumeAtNext {
			nextArg = resume.Outer
		} else {
			hnArg = resume.Outer
		}
	}
	for {
		if !resumeAtNext {
			hn := d.upstream.HasNext(hnArg)
			hnArg = nil
			if hn.IsError() {
				return cont.Err[value.Value](hn.Err())
			}
			if !hn.IsReady() {
				return cont.SuspendedStep[value.Value](cont.Propagate(d, driveStateHasNext, hn.Suspend()))
			}
			if !hn.Value() {
				final, err := d.accum.Finish(d.acc, d.count)
				if err != nil {
					return cont.Err[value.Value](err)
				}
				return cont.Ready(final)
			}
		}
		resumeAtNext = false
		nx := d.upstream.Next(nextArg)
		nextArg = nil
		if nx.IsError() {
			return cont.Err[value.Value](nx.Err())
		}
		if !nx.IsReady() {
			return cont.SuspendedStep[value.Value](cont.Propagate(d, driveStateNext, nx.Suspend()))
		}
		s := d.accum.Step(nil, d.acc, nx.Value())
		return d.finishStep(s)
	}
}

func (d *driveState) finishStep(s cont.Step[value.Value]) cont.Step[value.Value] {
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(d, driveStateStep, s.Suspend()))
	}
	d.acc = s.Value()
	d.count++
	return d.run(nil)
}
