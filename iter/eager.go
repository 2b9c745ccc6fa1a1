package iter

import (
	"fmt"

	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

// drainer is the shared resumable pump behind every stateful collector in
// this file (reverse, sort's materialization step, subList, collect,
// collectEntries, each, size): pull the whole upstream into a slice,
// optionally through a per-element callback, suspending and resuming
// exactly where the pull left off. It is itself not an Iterator; callers
// invoke Run directly from their own Op.
type drainer struct {
	upstream Iterator
	mapper   Callback // nil for size()/each() with no transform
	out      []value.Value
}

const (
	drainStateHasNext = 0
	drainStateNext    = 1
	drainStateMapper  = 2
)

// Run drives upstream to completion, applying mapper (if non-nil) to
// each element, and returns the accumulated slice once Ready.
func (d *drainer) Run(resume *cont.Continuation) cont.Step[[]value.Value] {
	if resume != nil {
		if prev, ok := resume.Frame.(*drainer); ok && prev != d {
			return prev.Run(resume)
		}
	}
	if resume != nil && resume.MethodLocation == drainStateMapper {
		s := d.mapper(resume.Outer, value.Null{})
		return d.finishMapped(s)
	}

	var hnArg, nextArg *cont.Continuation
	resumeAtNext := resume != nil && resume.MethodLocation == drainStateNext
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
				return cont.Err[[]value.Value](hn.Err())
			}
			if !hn.IsReady() {
				return cont.SuspendedStep[[]value.Value](cont.Propagate(d, drainStateHasNext, hn.Suspend()))
			}
			if !hn.Value() {
				return cont.Ready(d.out)
			}
		}
		resumeAtNext = false
		nx := d.upstream.Next(nextArg)
		nextArg = nil
		if nx.IsError() {
			return cont.Err[[]value.Value](nx.Err())
		}
		if !nx.IsReady() {
			return cont.SuspendedStep[[]value.Value](cont.Propagate(d, drainStateNext, nx.Suspend()))
		}
		if d.mapper == nil {
			d.out = append(d.out, nx.Value())
			continue
		}
		ms := d.mapper(nil, nx.Value())
		r := d.finishMapped(ms)
		if !r.IsReady() {
			return r
		}
	}
}

func (d *drainer) finishMapped(s cont.Step[value.Value]) cont.Step[[]value.Value] {
	if s.IsError() {
		return cont.Err[[]value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[[]value.Value](cont.Propagate(d, drainStateMapper, s.Suspend()))
	}
	d.out = append(d.out, s.Value())
	return d.Run(nil)
}

// Reverse eagerly materializes upstream and yields it back to front.
func Reverse(rt *cont.Runtime, resume *cont.Continuation, upstream Iterator) cont.Step[value.Value] {
	d := &drainer{upstream: upstream}
	s := d.Run(resume)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](s.Suspend())
	}
	out := s.Value()
	rev := make([]value.Value, len(out))
	for i, v := range out {
		rev[len(out)-1-i] = v
	}
	return cont.Ready(value.Value(value.NewList(rev)))
}

// SubList eagerly materializes upstream and returns the [from, to)
// sublist (Python-style negative indices resolved against the
// materialized length). A negative index that still resolves negative
// after adding the length is an out-of-range index, reported as an error
// naming the resolved position; an in-range or positive-but-too-large
// index is clamped to the list's bounds.
func SubList(resume *cont.Continuation, upstream Iterator, from, to int) cont.Step[value.Value] {
	d := &drainer{upstream: upstream}
	s := d.Run(resume)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](s.Suspend())
	}
	out := s.Value()
	size := len(out)

	rf := from
	if from < 0 {
		rf += size
		if rf < 0 {
			return cont.Err[value.Value](corerr.NewRuntimeError(
				fmt.Sprintf("subList: start index %d resolves to out-of-range position %d", from, rf), "", 0))
		}
	}
	rt := to
	if to < 0 {
		rt += size
		if rt < 0 {
			return cont.Err[value.Value](corerr.NewRuntimeError(
				fmt.Sprintf("subList: end index %d resolves to out-of-range position %d", to, rt), "", 0))
		}
	}
	if rf > size {
		rf = size
	}
	if rt > size {
		rt = size
	}
	if rt < rf {
		rt = rf
	}
	cp := make([]value.Value, rt-rf)
	copy(cp, out[rf:rt])
	return cont.Ready(value.Value(value.NewList(cp)))
}

// Collect materializes upstream into a new list, optionally through
// mapper.
func Collect(resume *cont.Continuation, upstream Iterator, mapper Callback) cont.Step[value.Value] {
	d := &drainer{upstream: upstream, mapper: mapper}
	s := d.Run(resume)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](s.Suspend())
	}
	return cont.Ready(value.Value(value.NewList(s.Value())))
}

// CollectEntries materializes upstream into an insertion-ordered map:
// each element (after an optional mapper) must be a two-element
// [key, value] list whose key is a string.
func CollectEntries(resume *cont.Continuation, upstream Iterator, mapper Callback) cont.Step[value.Value] {
	d := &drainer{upstream: upstream, mapper: mapper}
	s := d.Run(resume)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](s.Suspend())
	}
	m := value.NewMap()
	for _, entry := range s.Value() {
		pair, ok := entry.(*value.List)
		if !ok || len(pair.Elems) != 2 {
			return cont.Err[value.Value](corerr.NewRuntimeError("collectEntries: element is not a [key, value] pair", "", 0))
		}
		key, ok := pair.Elems[0].(value.String)
		if !ok {
			return cont.Err[value.Value](corerr.NewRuntimeError("collectEntries: key is not a string", "", 0))
		}
		m.Set(string(key), pair.Elems[1])
	}
	return cont.Ready(value.Value(m))
}

// Each eagerly drives upstream, invoking cb for its side effects and
// discarding its return value, and yields Null on completion.
func Each(resume *cont.Continuation, upstream Iterator, cb Callback) cont.Step[value.Value] {
	d := &drainer{upstream: upstream, mapper: cb}
	s := d.Run(resume)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](s.Suspend())
	}
	return cont.Ready(value.Value(value.Null{}))
}

// Size eagerly drives upstream to completion and returns the element
// count.
func Size(resume *cont.Continuation, upstream Iterator) cont.Step[value.Value] {
	d := &drainer{upstream: upstream}
	s := d.Run(resume)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](s.Suspend())
	}
	return cont.Ready(value.Value(value.Int64(len(s.Value()))))
}
