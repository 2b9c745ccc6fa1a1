package reduce

import (
	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/iter"
	"github.com/jactl-go/corert/value"
)

// MatchKind selects which of the three short-circuiting predicates Match
// drives.
type MatchKind byte

const (
	MatchAll MatchKind = iota
	MatchAny
	MatchNone
)

type matchState struct {
	upstream iter.Iterator
	pred     iter.Callback // nil => truthiness of the element itself
	kind     MatchKind
}

const (
	matchStateHasNext = 0
	matchStateNext    = 1
	matchStateTest    = 2
)

// Match drives upstream through allMatch/anyMatch/noneMatch
// with pred (or plain truthiness if pred is nil), short-circuiting as
// soon as the answer is known. Empty input: all→true, none→true,
// any→false.
func Match(resume *cont.Continuation, upstream iter.Iterator, kind MatchKind, pred iter.Callback) cont.Step[value.Value] {
	m := &matchState{upstream: upstream, pred: pred, kind: kind}
	return m.run(resume)
}

func (m *matchState) run(resume *cont.Continuation) cont.Step[value.Value] {
	if resume != nil && resume.MethodLocation == matchStateTest {
		s := m.pred(resume.Outer, value.Null{})
		return m.settleTest(s)
	}

	var hnArg, nextArg *cont.Continuation
	resumeAtNext := resume != nil && resume.MethodLocation == matchStateNext
	if resume != nil {
		if resumeAtNext {
			nextArg = resume.Outer
		} else {
			hnArg = resume.Outer
		}
	}
	for {
		if !resumeAtNext {
			hn := m.upstream.HasNext(hnArg)
			hnArg = nil
			if hn.IsError() {
				return cont.Err[value.Value](hn.Err())
			}
			if !hn.IsReady() {
				return cont.SuspendedStep[value.Value](cont.Propagate(m, matchStateHasNext, hn.Suspend()))
			}
			if !hn.Value() {
				return cont.Ready(value.Value(value.Bool(m.kind != MatchAny)))
			}
		}
		resumeAtNext = false
		nx := m.upstream.Next(nextArg)
		nextArg = nil
		if nx.IsError() {
			return cont.Err[value.Value](nx.Err())
		}
		if !nx.IsReady() {
			return cont.SuspendedStep[value.Value](cont.Propagate(m, matchStateNext, nx.Suspend()))
		}
		if m.pred == nil {
			if decided, result := m.decide(value.Truthy(nx.Value())); decided {
				return cont.Ready(result)
			}
			continue
		}
		s := m.pred(nil, nx.Value())
		return m.settleTest(s)
	}
}

func (m *matchState) settleTest(s cont.Step[value.Value]) cont.Step[value.Value] {
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(m, matchStateTest, s.Suspend()))
	}
	if decided, result := m.decide(value.Truthy(s.Value())); decided {
		return cont.Ready(result)
	}
	return m.run(nil)
}

// decide applies the short-circuit rule for this Kind given one
// element's truthy predicate result.
func (m *matchState) decide(truthy bool) (bool, value.Value) {
	switch m.kind {
	case MatchAll:
		if !truthy {
			return true, value.Bool(false)
		}
	case MatchAny:
		if truthy {
			return true, value.Bool(true)
		}
	case MatchNone:
		if truthy {
			return true, value.Bool(false)
		}
	}
	return false, nil
}
