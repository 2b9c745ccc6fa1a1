package reduce

import (
	"strings"

	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/iter"
	"github.com/jactl-go/corert/value"
)

var (
	errNonStringKey = corerr.NewRuntimeError("groupBy: key is not a string", "", 0)
	errNotAList     = corerr.NewRuntimeError("transpose: element is not a list", "", 0)
)

// reduceAccum implements KindReduce: acc receives a two-element
// [accumulator, element] list on each step.
type reduceAccum struct {
	acc iter.Callback
}

// NewReduce constructs the Accumulator for reduce(initial, acc).
func NewReduce(acc iter.Callback) Accumulator { return reduceAccum{acc: acc} }

func (r reduceAccum) Step(resume *cont.Continuation, acc, elem value.Value) cont.Step[value.Value] {
	if resume != nil {
		return r.acc(resume, value.Null{})
	}
	return r.acc(nil, value.NewList([]value.Value{acc, elem}))
}

func (reduceAccum) Finish(acc value.Value, count int) (value.Value, error) { return acc, nil }

// sumAccum implements KindSum: widened numeric addition via value.Add.
type sumAccum struct{}

func NewSum() Accumulator { return sumAccum{} }

func (sumAccum) Step(resume *cont.Continuation, acc, elem value.Value) cont.Step[value.Value] {
	sum, err := value.Add(acc, elem)
	if err != nil {
		return cont.Err[value.Value](err)
	}
	return cont.Ready(sum)
}

func (sumAccum) Finish(acc value.Value, count int) (value.Value, error) { return acc, nil }

// avgAccum implements KindAvg: sums then divides by count as a Decimal.
type avgAccum struct{ sumAccum }

func NewAvg() Accumulator { return avgAccum{} }

func (avgAccum) Finish(acc value.Value, count int) (value.Value, error) {
	if count == 0 {
		return value.Null{}, nil
	}
	return value.DivideInt(acc, count)
}

// minMaxAccum implements KindMin/KindMax: a one-pass scan remembering the
// (key, value) pair of the best-so-far element — key defaults to the
// element itself, or is cmp(elem) when cmp is supplied, per spec's
// "unwrap the (key, value) pair it uses internally to remember the
// compared key alongside the element." Ties go to first-seen, since a
// strict > / < comparison against the running best never replaces it on
// equality.
type minMaxAccum struct {
	wantMax bool
	cmp     iter.Callback // nil => the element itself is the comparison key
	started bool
	key     value.Value
	best    value.Value
	pending value.Value // elem awaiting cmp, stashed across a cmp suspension
}

// NewMin constructs the Accumulator for min(cmp). cmp may be nil, in
// which case elements are compared directly via value.Compare.
func NewMin(cmp iter.Callback) Accumulator { return &minMaxAccum{cmp: cmp} }

// NewMax constructs the Accumulator for max(cmp). cmp may be nil, in
// which case elements are compared directly via value.Compare.
func NewMax(cmp iter.Callback) Accumulator { return &minMaxAccum{wantMax: true, cmp: cmp} }

func (m *minMaxAccum) Step(resume *cont.Continuation, acc, elem value.Value) cont.Step[value.Value] {
	if m.cmp == nil {
		return m.consider(elem, elem)
	}

	var s cont.Step[value.Value]
	if resume != nil {
		s = m.cmp(resume, value.Null{})
	} else {
		m.pending = elem
		s = m.cmp(nil, elem)
	}
	if s.IsError() || !s.IsReady() {
		return s
	}
	return m.consider(s.Value(), m.pending)
}

// consider folds one (key, elem) pair into the running best, returning
// the new best element as the step's value.
func (m *minMaxAccum) consider(key, elem value.Value) cont.Step[value.Value] {
	if !m.started {
		m.started = true
		m.key, m.best = key, elem
		return cont.Ready(elem)
	}
	c, err := value.Compare(key, m.key)
	if err != nil {
		return cont.Err[value.Value](err)
	}
	if (m.wantMax && c > 0) || (!m.wantMax && c < 0) {
		m.key, m.best = key, elem
	}
	return cont.Ready(m.best)
}

func (m *minMaxAccum) Finish(acc value.Value, count int) (value.Value, error) {
	if count == 0 {
		return value.Null{}, nil
	}
	return m.best, nil
}

// joinAccum implements KindJoin: string-concatenates elements with sep.
type joinAccum struct {
	sep     string
	builder strings.Builder
	first   bool
}

func NewJoin(sep string) Accumulator { return &joinAccum{sep: sep, first: true} }

func (j *joinAccum) Step(resume *cont.Continuation, acc, elem value.Value) cont.Step[value.Value] {
	if !j.first {
		j.builder.WriteString(j.sep)
	}
	j.first = false
	j.builder.WriteString(elemToString(elem))
	return cont.Ready(value.Value(value.String(j.builder.String())))
}

func (j *joinAccum) Finish(acc value.Value, count int) (value.Value, error) {
	return value.String(j.builder.String()), nil
}

func elemToString(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return string(s)
	}
	var b strings.Builder
	_ = value.Print(&b, v)
	return b.String()
}

// groupByAccum implements KindGroupBy: builds an insertion-ordered map
// from keyFn(elem) to the list of elements sharing that key, preserving
// encounter order.
type groupByAccum struct {
	keyFn   iter.Callback
	m       *value.Map
	pending value.Value // elem awaiting keyFn, stashed across a keyFn suspension
}

func NewGroupBy(keyFn iter.Callback) Accumulator {
	return &groupByAccum{keyFn: keyFn, m: value.NewMap()}
}

func (g *groupByAccum) Step(resume *cont.Continuation, acc, elem value.Value) cont.Step[value.Value] {
	var s cont.Step[value.Value]
	if resume != nil {
		s = g.keyFn(resume, value.Null{})
	} else {
		g.pending = elem
		s = g.keyFn(nil, elem)
	}
	if s.IsError() || !s.IsReady() {
		return s
	}
	key, ok := s.Value().(value.String)
	if !ok {
		return cont.Err[value.Value](errNonStringKey)
	}
	elem = g.pending
	existing, found := g.m.Get(string(key))
	if !found {
		g.m.Set(string(key), value.NewList([]value.Value{elem}))
	} else {
		list := existing.(*value.List)
		list.Elems = append(list.Elems, elem)
	}
	return cont.Ready(value.Value(g.m))
}

func (g *groupByAccum) Finish(acc value.Value, count int) (value.Value, error) {
	return g.m, nil
}

// transposeAccum implements KindTranspose: treats upstream as a list of
// lists, producing, at index i, a list of the i-th element of each input
// list, padded to the longest with null.
type transposeAccum struct {
	rows [][]value.Value
}

func NewTranspose() Accumulator { return &transposeAccum{} }

func (t *transposeAccum) Step(resume *cont.Continuation, acc, elem value.Value) cont.Step[value.Value] {
	row, ok := elem.(*value.List)
	if !ok {
		return cont.Err[value.Value](errNotAList)
	}
	t.rows = append(t.rows, row.Elems)
	return cont.Ready(value.Value(value.Null{}))
}

func (t *transposeAccum) Finish(acc value.Value, count int) (value.Value, error) {
	width := 0
	for _, row := range t.rows {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([]value.Value, width)
	for i := 0; i < width; i++ {
		col := make([]value.Value, len(t.rows))
		for j, row := range t.rows {
			if i < len(row) {
				col[j] = row[i]
			} else {
				col[j] = value.Null{}
			}
		}
		out[i] = value.NewList(col)
	}
	return value.NewList(out), nil
}
