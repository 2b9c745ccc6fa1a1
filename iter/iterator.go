// Package iter implements the lazy, chainable, suspendable iterator
// pipeline: map, mapWithIndex, filter, flatMap, unique, skip, limit,
// grouped, windowSliding, reverse, sort, subList, collect,
// collectEntries, each and size.
//
// Every operator is a small struct implementing Iterator, whose HasNext
// and Next methods follow the even/odd state-machine discipline of
// cont.Step: called with resume == nil to start a fresh pull, or with the
// Continuation chain cont.Fiber delivered on resume, per cont's resume
// convention (see cont.Propagate's doc comment) — an operator reads its
// own resume.MethodLocation to know which internal call it was waiting
// on, and re-enters that call passing resume.Outer, never resume itself.
//
// The resumable-offset shape (a struct carrying upstream plus just enough
// scratch state to resume a partially-consumed pull) mirrors a chunked
// reader whose Next() (*Chunk, error) / io.EOF sentinel embodies the
// same "pull one chunk, remember how far you got" idea this package
// generalizes to suspension instead of error-on-exhaustion.
package iter

import (
	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

// errExhausted is returned by Next when called without a preceding
// HasNext()==true check. Callers in this package never trigger it; it
// guards against misuse by hosts driving an Iterator directly.
var errExhausted = corerr.NewRuntimeError("next() called with no more elements", "", 0)

// Iterator is the two-operation pull interface every stateless and
// stateful operator in this package implements.
type Iterator interface {
	value.Iterator
	HasNext(resume *cont.Continuation) cont.Step[bool]
	Next(resume *cont.Continuation) cont.Step[value.Value]
}

// Callback is a user-supplied function (mapper, predicate, key
// extractor, reducer step) that may itself suspend. On a fresh call,
// resume is nil and arg carries the input; on re-entry after a
// suspension that originated inside the callback's own call to
// suspend_blocking/suspend_non_blocking, resume carries the delivered
// Continuation and arg is the zero Value — a resuming callback must
// recover whatever locals it needs from its own Continuation.ObjLocals,
// stashed the last time it suspended.
type Callback func(resume *cont.Continuation, arg value.Value) cont.Step[value.Value]

// iteratorMarker satisfies value.Iterator for any concrete operator type
// embedding baseIterator.
type baseIterator struct{}

func (baseIterator) valueMarker()    {}
func (baseIterator) iteratorMarker() {}

// sourceIterator adapts an in-memory slice (e.g. a List's Elems, or the
// materialized output of an eager operator) into an Iterator. It never
// suspends.
type sourceIterator struct {
	baseIterator
	elems []value.Value
	pos   int
}

// FromSlice constructs an Iterator over elems, which must not be mutated
// afterward.
func FromSlice(elems []value.Value) Iterator {
	return &sourceIterator{elems: elems}
}

// FromMap constructs an Iterator over m's entries in insertion order. Each
// Map.Entry-like pair is normalized to a two-element [key, value] List at
// the source, which is the shape every downstream operator (map, filter,
// and the rest) already expects a pipeline element to be — map()'s own
// normalization step (spec: "a Map.Entry-like pair element is first
// normalized to a two-element list before being handed to mapper") has
// nothing left to do once entries arrive already in this form.
func FromMap(m *value.Map) Iterator {
	keys := m.Keys()
	elems := make([]value.Value, len(keys))
	for i, k := range keys {
		v, _ := m.Get(k)
		elems[i] = value.NewList([]value.Value{value.String(k), v})
	}
	return &sourceIterator{elems: elems}
}

func (s *sourceIterator) HasNext(resume *cont.Continuation) cont.Step[bool] {
	return cont.Ready(s.pos < len(s.elems))
}

func (s *sourceIterator) Next(resume *cont.Continuation) cont.Step[value.Value] {
	if s.pos >= len(s.elems) {
		return cont.Err[value.Value](errExhausted)
	}
	v := s.elems[s.pos]
	s.pos++
	return cont.Ready(v)
}

// downstreamArg returns the Continuation to pass to a nested call: nil on
// a fresh pull, resume.Outer on re-entry. Every operator in this package
// uses this one-liner at each of its call sites into upstream.HasNext,
// upstream.Next, or a Callback.
func downstreamArg(resume *cont.Continuation) *cont.Continuation {
	if resume == nil {
		return nil
	}
	return resume.Outer
}
