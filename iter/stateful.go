package iter

import (
	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

// The operators in this file never invoke a user callback directly, so
// the only suspension source is the upstream iterator itself — every
// await point is an upstream HasNext or Next call, resumed through
// stateHasNextUpstream / stateNextUpstream (plus trailing skip's local
// stateHasNextFinal).

// --- unique ---

type uniqueIter struct {
	baseIterator
	upstream Iterator
	seen     []value.Value
}

// Unique deduplicates upstream by equality, tracked with a running list
// built on the fly (small-N friendly; matches the "set built on the fly"
// wording without requiring Value to be Go-comparable).
func Unique(upstream Iterator) Iterator {
	return &uniqueIter{upstream: upstream}
}

func (u *uniqueIter) HasNext(resume *cont.Continuation) cont.Step[bool] {
	return delegateHasNext(u, u.upstream, resume)
}

func (u *uniqueIter) Next(resume *cont.Continuation) cont.Step[value.Value] {
	s := u.upstream.Next(downstreamArg(resume))
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(u, stateNextUpstream, s.Suspend()))
	}
	elem := s.Value()
	for _, prior := range u.seen {
		if value.Equal(prior, elem) {
			return u.Next(nil)
		}
	}
	u.seen = append(u.seen, elem)
	return cont.Ready(elem)
}

// --- skip ---

type skipIter struct {
	baseIterator
	upstream Iterator
	n        int
	skipped  bool // n>=0 case: whether the leading n have been dropped
	ring     []value.Value
	ringPos  int
	filled   bool
}

// Skip drops the first n elements (n>=0) or the last |n| elements (n<0,
// via a bounded ring buffer of that size).
func Skip(upstream Iterator, n int) Iterator {
	if n < 0 {
		return &skipIter{upstream: upstream, n: -n, ring: make([]value.Value, -n)}
	}
	return &skipIter{upstream: upstream, n: n}
}

func (s *skipIter) HasNext(resume *cont.Continuation) cont.Step[bool] {
	if s.ring != nil {
		return s.hasNextTrailing(resume)
	}
	if !s.skipped {
		return s.dropLeading(resume)
	}
	return delegateHasNext(s, s.upstream, resume)
}

func (s *skipIter) dropLeading(resume *cont.Continuation) cont.Step[bool] {
	var hnArg, nextArg *cont.Continuation
	resumeAtNext := resume != nil && resume.MethodLocation == stateNextUpstream
	if resume != nil {
		if resumeAtNext {
			nextArg = resume.Outer
		} else {
			hnArg = resume.Outer
		}
	}
	for {
		if !resumeAtNext {
			hn := s.upstream.HasNext(hnArg)
			hnArg = nil
			if hn.IsError() {
				return cont.Err[bool](hn.Err())
			}
			if !hn.IsReady() {
				return cont.SuspendedStep[bool](cont.Propagate(s, stateHasNextUpstream, hn.Suspend()))
			}
			if !hn.Value() {
				s.skipped = true
				return cont.Ready(false)
			}
			if s.n == 0 {
				s.skipped = true
				return cont.Ready(true)
			}
		}
		resumeAtNext = false
		nx := s.upstream.Next(nextArg)
		nextArg = nil
		if nx.IsError() {
			return cont.Err[bool](nx.Err())
		}
		if !nx.IsReady() {
			return cont.SuspendedStep[bool](cont.Propagate(s, stateNextUpstream, nx.Suspend()))
		}
		s.n--
	}
}

func (s *skipIter) Next(resume *cont.Continuation) cont.Step[value.Value] {
	if s.ring != nil {
		return s.nextTrailing(resume)
	}
	if !s.skipped {
		hn := s.dropLeading(resume)
		if hn.IsError() {
			return cont.Err[value.Value](hn.Err())
		}
		if !hn.IsReady() {
			return cont.SuspendedStep[value.Value](cont.Propagate(s, stateHasNextUpstream, hn.Suspend()))
		}
		if !hn.Value() {
			return cont.Err[value.Value](errExhausted)
		}
	}
	return s.upstream.Next(downstreamArg(resume))
}

// hasNextTrailing/nextTrailing implement the n<0 ring-buffer case: the
// iterator must always stay |n| elements ahead of what it yields, so it
// prefetches greedily into a ring and only emits once it knows a
// successor exists.
func (s *skipIter) hasNextTrailing(resume *cont.Continuation) cont.Step[bool] {
	const stateHasNextFinal = 2
	if resume != nil && resume.MethodLocation == stateHasNextFinal {
		hn := s.upstream.HasNext(resume.Outer)
		if hn.IsError() {
			return cont.Err[bool](hn.Err())
		}
		if !hn.IsReady() {
			return cont.SuspendedStep[bool](cont.Propagate(s, stateHasNextFinal, hn.Suspend()))
		}
		return cont.Ready(hn.Value())
	}

	var hnArg, nextArg *cont.Continuation
	resumeAtNext := resume != nil && resume.MethodLocation == stateNextUpstream
	if resume != nil {
		if resumeAtNext {
			nextArg = resume.Outer
		} else {
			hnArg = resume.Outer
		}
	}
	for !s.filled {
		if !resumeAtNext {
			hn := s.upstream.HasNext(hnArg)
			hnArg = nil
			if hn.IsError() {
				return cont.Err[bool](hn.Err())
			}
			if !hn.IsReady() {
				return cont.SuspendedStep[bool](cont.Propagate(s, stateHasNextUpstream, hn.Suspend()))
			}
			if !hn.Value() {
				return cont.Ready(false)
			}
		}
		resumeAtNext = false
		nx := s.upstream.Next(nextArg)
		nextArg = nil
		if nx.IsError() {
			return cont.Err[bool](nx.Err())
		}
		if !nx.IsReady() {
			return cont.SuspendedStep[bool](cont.Propagate(s, stateNextUpstream, nx.Suspend()))
		}
		s.ring[s.ringPos] = nx.Value()
		s.ringPos = (s.ringPos + 1) % len(s.ring)
		if s.ringPos == 0 {
			s.filled = true
		}
	}
	hn := s.upstream.HasNext(nil)
	if hn.IsError() {
		return cont.Err[bool](hn.Err())
	}
	if !hn.IsReady() {
		return cont.SuspendedStep[bool](cont.Propagate(s, stateHasNextFinal, hn.Suspend()))
	}
	return cont.Ready(hn.Value())
}

func (s *skipIter) nextTrailing(resume *cont.Continuation) cont.Step[value.Value] {
	hn := s.hasNextTrailing(resume)
	if hn.IsError() {
		return cont.Err[value.Value](hn.Err())
	}
	if !hn.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(s, stateHasNextUpstream, hn.Suspend()))
	}
	if !hn.Value() {
		return cont.Err[value.Value](errExhausted)
	}
	out := s.ring[s.ringPos]
	nx := s.upstream.Next(nil)
	if nx.IsError() {
		return cont.Err[value.Value](nx.Err())
	}
	if !nx.IsReady() {
		// upstream.Next() is known-ready here per hasNextTrailing's
		// having just confirmed HasNext==true with no intervening
		// yield, but guard anyway for a host whose HasNext isn't
		// side-effect-free across calls.
		return cont.SuspendedStep[value.Value](cont.Propagate(s, stateNextUpstream, nx.Suspend()))
	}
	s.ring[s.ringPos] = nx.Value()
	s.ringPos = (s.ringPos + 1) % len(s.ring)
	return cont.Ready(out)
}

// --- limit ---

type limitIter struct {
	baseIterator
	upstream Iterator
	n        int
	emitted  int
	// trailing (n<0): buffer everything then serve, since "all but the
	// last |n|" cannot be known until upstream exhausts.
	trailing   bool
	material   []value.Value
	matDone    bool
	matPos     int
}

// Limit emits the first n elements (n>=0) or all but the last |n|
// (n<0).
func Limit(upstream Iterator, n int) Iterator {
	if n < 0 {
		return &limitIter{upstream: upstream, n: -n, trailing: true}
	}
	return &limitIter{upstream: upstream, n: n}
}

func (l *limitIter) HasNext(resume *cont.Continuation) cont.Step[bool] {
	if l.trailing {
		return l.hasNextMaterialized(resume)
	}
	if l.emitted >= l.n {
		return cont.Ready(false)
	}
	return delegateHasNext(l, l.upstream, resume)
}

func (l *limitIter) Next(resume *cont.Continuation) cont.Step[value.Value] {
	if l.trailing {
		return l.nextMaterialized(resume)
	}
	if l.emitted >= l.n {
		return cont.Err[value.Value](errExhausted)
	}
	s := l.upstream.Next(downstreamArg(resume))
	if s.IsError() {
		return cont.Err[value.Value](s.Err())
	}
	if !s.IsReady() {
		return cont.SuspendedStep[value.Value](cont.Propagate(l, stateNextUpstream, s.Suspend()))
	}
	l.emitted++
	return cont.Ready(s.Value())
}

func (l *limitIter) materialize(resume *cont.Continuation) cont.Step[bool] {
	var hnArg, nextArg *cont.Continuation
	resumeAtNext := resume != nil && resume.MethodLocation == stateNextUpstream
	if resume != nil {
		if resumeAtNext {
			nextArg = resume.Outer
		} else {
			hnArg = resume.Outer
		}
	}
	for {
		if !resumeAtNext {
			hn := l.upstream.HasNext(hnArg)
			hnArg = nil
			if hn.IsError() {
				return cont.Err[bool](hn.Err())
			}
			if !hn.IsReady() {
				return cont.SuspendedStep[bool](cont.Propagate(l, stateHasNextUpstream, hn.Suspend()))
			}
			if !hn.Value() {
				l.matDone = true
				if len(l.material) > l.n {
					l.material = l.material[:len(l.material)-l.n]
				} else {
					l.material = nil
				}
				return cont.Ready(true)
			}
		}
		resumeAtNext = false
		nx := l.upstream.Next(nextArg)
		nextArg = nil
		if nx.IsError() {
			return cont.Err[bool](nx.Err())
		}
		if !nx.IsReady() {
			return cont.SuspendedStep[bool](cont.Propagate(l, stateNextUpstream, nx.Suspend()))
		}
		l.material = append(l.material, nx.Value())
	}
}

func (l *limitIter) hasNextMaterialized(resume *cont.Continuation) cont.Step[bool] {
	if !l.matDone {
		done := l.materialize(resume)
		if done.IsError() {
			return done
		}
		if !done.IsReady() {
			return done
		}
	}
	return cont.Ready(l.matPos < len(l.material))
}

func (l *limitIter) nextMaterialized(resume *cont.Continuation) cont.Step[value.Value] {
	if !l.matDone {
		done := l.materialize(resume)
		if done.IsError() {
			return cont.Err[value.Value](done.Err())
		}
		if !done.IsReady() {
			return cont.SuspendedStep[value.Value](done.Suspend())
		}
	}
	if l.matPos >= len(l.material) {
		return cont.Err[value.Value](errExhausted)
	}
	v := l.material[l.matPos]
	l.matPos++
	return cont.Ready(v)
}

// --- grouped / windowSliding ---

type batchIter struct {
	baseIterator
	upstream Iterator
	k        int
	sliding  bool
	window   []value.Value
	done     bool
}

// Grouped batches upstream into disjoint lists of size k; the final
// batch may be short. k==0 returns upstream itself, unwrapped; k<0 is a
// caller error,
// reported by returning an iterator whose first pull errors.
func Grouped(upstream Iterator, k int) Iterator {
	if k == 0 {
		return upstream
	}
	if k < 0 {
		return errorIterator{err: corerr.NewRuntimeError("grouped(n) requires n >= 0", "", 0)}
	}
	return &batchIter{upstream: upstream, k: k}
}

// WindowSliding emits overlapping windows of size k stepping by 1. k==0
// returns upstream unchanged; k<0 is a caller error.
func WindowSliding(upstream Iterator, k int) Iterator {
	if k == 0 {
		return upstream
	}
	if k < 0 {
		return errorIterator{err: corerr.NewRuntimeError("windowSliding(n) requires n >= 0", "", 0)}
	}
	return &batchIter{upstream: upstream, k: k, sliding: true}
}

func (b *batchIter) HasNext(resume *cont.Continuation) cont.Step[bool] {
	if b.done {
		return cont.Ready(false)
	}
	if b.sliding && len(b.window) == b.k {
		return cont.Ready(true)
	}
	return b.fill(resume)
}

func (b *batchIter) fill(resume *cont.Continuation) cont.Step[bool] {
	var hnArg, nextArg *cont.Continuation
	resumeAtNext := resume != nil && resume.MethodLocation == stateNextUpstream
	if resume != nil {
		if resumeAtNext {
			nextArg = resume.Outer
		} else {
			hnArg = resume.Outer
		}
	}
	for len(b.window) < b.k {
		if !resumeAtNext {
			hn := b.upstream.HasNext(hnArg)
			hnArg = nil
			if hn.IsError() {
				return cont.Err[bool](hn.Err())
			}
			if !hn.IsReady() {
				return cont.SuspendedStep[bool](cont.Propagate(b, stateHasNextUpstream, hn.Suspend()))
			}
			if !hn.Value() {
				break
			}
		}
		resumeAtNext = false
		nx := b.upstream.Next(nextArg)
		nextArg = nil
		if nx.IsError() {
			return cont.Err[bool](nx.Err())
		}
		if !nx.IsReady() {
			return cont.SuspendedStep[bool](cont.Propagate(b, stateNextUpstream, nx.Suspend()))
		}
		b.window = append(b.window, nx.Value())
	}
	if b.sliding {
		// A sliding window that can no longer reach k is a trailing
		// remainder, not a short final window — only grouped keeps those.
		return cont.Ready(len(b.window) == b.k)
	}
	return cont.Ready(len(b.window) > 0)
}

func (b *batchIter) Next(resume *cont.Continuation) cont.Step[value.Value] {
	hn := b.HasNext(resume)
	if hn.IsError() {
		return cont.Err[value.Value](hn.Err())
	}
	if !hn.IsReady() {
		return cont.SuspendedStep[value.Value](hn.Suspend())
	}
	if !hn.Value() {
		return cont.Err[value.Value](errExhausted)
	}
	batch := make([]value.Value, len(b.window))
	copy(batch, b.window)
	out := value.NewList(batch)
	if b.sliding {
		// HasNext only reports true here once the window is full again,
		// so batch is always a complete k-window; no short final window
		// for sliding mode.
		b.window = b.window[1:]
	} else {
		b.done = len(batch) < b.k
		b.window = nil
	}
	return cont.Ready(value.Value(out))
}

// errorIterator is a degenerate Iterator that fails its first pull —
// used for the caller-error cases (negative grouped/windowSliding size).
type errorIterator struct {
	baseIterator
	err error
}

func (e errorIterator) HasNext(*cont.Continuation) cont.Step[bool]         { return cont.Err[bool](e.err) }
func (e errorIterator) Next(*cont.Continuation) cont.Step[value.Value]    { return cont.Err[value.Value](e.err) }
