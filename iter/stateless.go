package iter

import (
	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/value"
)

// Per-operator resume states. Each operator has at most two await
// points, so the same small constants are reused across types; nothing
// ever compares states across operator boundaries.
const (
	stateHasNextUpstream = 0
	stateNextUpstream    = 1
	stateNextCallback    = 2
)

// --- map ---

type mapIter struct {
	baseIterator
	upstream Iterator
	mapper   Callback
}

// Map returns an iterator applying mapper to each upstream element.
func Map(upstream Iterator, mapper Callback) Iterator {
	return &mapIter{upstream: upstream, mapper: mapper}
}

func (m *mapIter) HasNext(resume *cont.Continuation) cont.Step[bool] {
	return delegateHasNext(m, m.upstream, resume)
}

func (m *mapIter) Next(resume *cont.Continuation) cont.Step[value.Value] {
	if resume != nil && resume.MethodLocation == stateNextCallback {
		return finishCallback(m, m.mapper, resume)
	}
	s := m.upstream.Next(downstreamArg(resume))
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(m, stateNextUpstream, s.Suspend()))
	}
	return callCallback(m, m.mapper, s.Value())
}

// --- mapWithIndex ---

type mapWithIndexIter struct {
	baseIterator
	upstream Iterator
	mapper   Callback // receives a two-element [index, element] List
	index    int64
}

// MapWithIndex returns an iterator applying mapper to [index, element]
// pairs, index starting at 0.
func MapWithIndex(upstream Iterator, mapper Callback) Iterator {
	return &mapWithIndexIter{upstream: upstream, mapper: mapper}
}

func (m *mapWithIndexIter) HasNext(resume *cont.Continuation) cont.Step[bool] {
	return delegateHasNext(m, m.upstream, resume)
}

func (m *mapWithIndexIter) Next(resume *cont.Continuation) cont.Step[value.Value] {
	if resume != nil && resume.MethodLocation == stateNextCallback {
		return finishCallback(m, m.mapper, resume)
	}
	s := m.upstream.Next(downstreamArg(resume))
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(m, stateNextUpstream, s.Suspend()))
	}
	pair := value.NewList([]value.Value{value.Int64(m.index), s.Value()})
	m.index++
	return callCallback(m, m.mapper, pair)
}

// --- filter ---

type filterIter struct {
	baseIterator
	upstream Iterator
	pred     Callback
}

// Filter returns an iterator yielding only upstream elements for which
// pred is truthy.
func Filter(upstream Iterator, pred Callback) Iterator {
	return &filterIter{upstream: upstream, pred: pred}
}

func (f *filterIter) HasNext(resume *cont.Continuation) cont.Step[bool] {
	// filter cannot answer HasNext without pulling (and testing) the
	// next upstream element, since an element may be rejected; this
	// simplified driver re-derives HasNext by attempting Next and
	// caching the result is avoided here in favor of the common,
	// simpler approach used by most pull iterators of this shape: defer
	// to the upstream's own HasNext as a necessary (not sufficient)
	// condition, and let Next perform the real filtering loop. Hosts
	// must treat HasNext()==true followed by Next() returning an error
	// for "nothing matched" as possible; see Next's loop below, which
	// instead loops internally until a match or exhaustion, so HasNext
	// reflects upstream exhaustion only and Next never spuriously errors.
	return delegateHasNext(f, f.upstream, resume)
}

const (
	filterStateHasNext = 0
	filterStateNext    = 1
	filterStateTest    = 2
)

func (f *filterIter) Next(resume *cont.Continuation) cont.Step[value.Value] {
	if resume != nil && resume.MethodLocation == filterStateTest {
		pending := resume.Frame.(*filterPending)
		return f.resumeTest(pending, resume)
	}

	var hnArg *cont.Continuation
	if resume != nil && resume.MethodLocation == filterStateHasNext {
		hnArg = resume.Outer
	}
	if resume == nil || resume.MethodLocation == filterStateHasNext {
		hn := f.upstream.HasNext(hnArg)
		if hn.IsError() {
			return cont.Err[value.Value](hn.Err())
		}
		if !hn.IsReady() {
			return cont.SuspendedStep[value.Value](cont.Propagate(f, filterStateHasNext, hn.Suspend()))
		}
		if !hn.Value() {
			return cont.Err[value.Value](errExhausted)
		}
		resume = nil // fall through to a fresh Next pull below
	}

	var nextArg *cont.Continuation
	if resume != nil && resume.MethodLocation == filterStateNext {
		nextArg = resume.Outer
	}
	s := f.upstream.Next(nextArg)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(f, filterStateNext, s.Suspend()))
	}
	return f.testElem(s.Value())
}

func (f *filterIter) testElem(elem value.Value) cont.Step[value.Value] {
	s := f.pred(nil, elem)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(&filterPending{elem: elem}, filterStateTest, s.Suspend()))
	}
	if value.Truthy(s.Value()) {
		return cont.Ready(elem)
	}
	return f.Next(nil)
}

// filterPending carries the element under test across a predicate
// suspension, since filter's own Next must loop back to re-test the
// element once the predicate's delivered result lands.
type filterPending struct {
	elem value.Value
}

func (f *filterIter) resumeTest(pending *filterPending, resume *cont.Continuation) cont.Step[value.Value] {
	s := f.pred(resume.Outer, pending.elem)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(pending, filterStateTest, s.Suspend()))
	}
	if value.Truthy(s.Value()) {
		return cont.Ready(pending.elem)
	}
	return f.Next(nil)
}

// --- flatMap ---

type flatMapIter struct {
	baseIterator
	upstream Iterator
	mapper   Callback
	inner    Iterator // current sub-iterator being drained, or nil
}

// FlatMap returns an iterator where mapper(elem) is itself iterated;
// null results are treated as empty, non-iterable singletons as
// one-element sequences.
func FlatMap(upstream Iterator, mapper Callback) Iterator {
	return &flatMapIter{upstream: upstream, mapper: mapper}
}

func (fm *flatMapIter) HasNext(resume *cont.Continuation) cont.Step[bool] {
	// flatMap, like filter, can only answer authoritatively by pulling;
	// Next() loops until it produces a value or the upstream (and any
	// in-flight inner iterator) is exhausted.
	if fm.inner != nil {
		return fm.inner.HasNext(resume)
	}
	return delegateHasNext(fm, fm.upstream, resume)
}

const (
	flatMapStateInnerHasNext = 0
	flatMapStateUpstreamNext = 1
	flatMapStateMapperResult = 2
)

func (fm *flatMapIter) Next(resume *cont.Continuation) cont.Step[value.Value] {
	if resume != nil && resume.MethodLocation == flatMapStateMapperResult {
		s := fm.mapper(resume.Outer, value.Null{})
		return fm.finishMapperCall(s)
	}

	if fm.inner != nil {
		var arg *cont.Continuation
		if resume != nil && resume.MethodLocation == flatMapStateInnerHasNext {
			arg = resume.Outer
		}
		hn := fm.inner.HasNext(arg)
		if hn.IsError() {
			return cont.Err[value.Value](hn.Err())
		}
		if !hn.IsReady() {
			return cont.SuspendedStep[value.Value](cont.Propagate(fm, flatMapStateInnerHasNext, hn.Suspend()))
		}
		if hn.Value() {
			return fm.inner.Next(nil)
		}
		fm.inner = nil
		resume = nil
	}

	var arg *cont.Continuation
	if resume != nil && resume.MethodLocation == flatMapStateUpstreamNext {
		arg = resume.Outer
	}
	s := fm.upstream.Next(arg)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(fm, flatMapStateUpstreamNext, s.Suspend()))
	}
	return fm.applyMapper(s.Value())
}

func (fm *flatMapIter) applyMapper(elem value.Value) cont.Step[value.Value] {
	s := fm.mapper(nil, elem)
	return fm.finishMapperCall(s)
}

func (fm *flatMapIter) finishMapperCall(s cont.Step[value.Value]) cont.Step[value.Value] {
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(fm, flatMapStateMapperResult, s.Suspend()))
	}
	return fm.settleMapped(s.Value())
}

func (fm *flatMapIter) settleMapped(mapped value.Value) cont.Step[value.Value] {
	switch v := mapped.(type) {
	case value.Null:
		return fm.Next(nil)
	case Iterator:
		fm.inner = v
		return fm.Next(nil)
	case *value.List:
		fm.inner = FromSlice(v.Elems)
		return fm.Next(nil)
	default:
		fm.inner = FromSlice([]value.Value{mapped})
		return fm.Next(nil)
	}
}

// delegateHasNext is the common HasNext body for operators that neither
// drop nor duplicate upstream elements (map, mapWithIndex): upstream
// exhaustion is necessary and sufficient.
func delegateHasNext(frame any, upstream Iterator, resume *cont.Continuation) cont.Step[bool] {
	s := upstream.HasNext(downstreamArg(resume))
	if s.IsError() {
		return cont.Err[bool](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[bool](cont.Propagate(frame, stateHasNextUpstream, s.Suspend()))
	}
	return cont.Ready(s.Value())
}

// callCallback invokes cb fresh with arg, wrapping a suspension as a
// stateNextCallback frame on owner.
func callCallback(owner any, cb Callback, arg value.Value) cont.Step[value.Value] {
	s := cb(nil, arg)
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(owner, stateNextCallback, s.Suspend()))
	}
	return cont.Ready(s.Value())
}

// finishCallback re-enters cb on resume at the stateNextCallback state.
func finishCallback(owner any, cb Callback, resume *cont.Continuation) cont.Step[value.Value] {
	s := cb(resume.Outer, value.Null{})
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(owner, stateNextCallback, s.Suspend()))
	}
	return cont.Ready(s.Value())
}
