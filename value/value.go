// Package value implements the tagged-union Value model shared by every
// other package: the scripting language's runtime data, its truthiness
// and equality rules, and numeric widening order.
package value

import (
	"math/big"
)

// Value is the tagged union of every runtime value. It is a closed set
// of concrete types implemented in this package (Instance included: its
// classes are user-defined, but the Go type and its marker method live
// here).
//
// Kept as a marker-method interface rather than a sealed sum type: Go has
// no sum types, and an empty marker method is the idiomatic way to close
// the set against accidental external implementations while keeping the
// zero-cost interface dispatch the rest of the pipeline relies on.
type Value interface {
	valueMarker()
}

// Checkpointable is implemented by any Value that owns its own codec
// encoding, rather than being handled by the codec's built-in object-body
// switch (Instance, StringBuilder, RegexMatcher).
type Checkpointable interface {
	Value
	// CheckpointTag returns the stable per-type tag written before the
	// body, so restore can dispatch without a type registry lookup for
	// built-in Checkpointable kinds.
	CheckpointTag() byte
}

// Null is the single null value.
type Null struct{}

func (Null) valueMarker() {}

// Bool wraps a boolean.
type Bool bool

func (Bool) valueMarker() {}

// Int32 wraps a 32-bit signed integer.
type Int32 int32

func (Int32) valueMarker() {}

// Int64 wraps a 64-bit signed integer.
type Int64 int64

func (Int64) valueMarker() {}

// Float64 wraps a 64-bit float.
type Float64 float64

func (Float64) valueMarker() {}

// Decimal is an arbitrary-precision decimal, backed by math/big.Float at
// a fixed precision (see DESIGN.md for the Open Question decision on
// sqrt(Decimal) precision).
type Decimal struct {
	V *big.Float
}

func (Decimal) valueMarker() {}

// DecimalPrecision is the fixed precision (in bits) used for all Decimal
// arithmetic, chosen to comfortably exceed 34 significant decimal digits.
const DecimalPrecision = 128

// NewDecimal constructs a Decimal from a string, at the module's fixed
// precision.
func NewDecimal(s string) (Decimal, error) {
	f, _, err := big.ParseFloat(s, 10, DecimalPrecision, big.ToNearestEven)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{V: f}, nil
}

// NewDecimalFromInt constructs a Decimal from an int64.
func NewDecimalFromInt(i int64) Decimal {
	f := new(big.Float).SetPrec(DecimalPrecision)
	f.SetInt64(i)
	return Decimal{V: f}
}

// String renders the canonical decimal string used by the codec.
func (d Decimal) String() string {
	if d.V == nil {
		return "0"
	}
	return d.V.Text('g', -1)
}

// String is a runtime string value.
type String string

func (String) valueMarker() {}

// List is an ordered, 0-based sequence of Value, with negative indices
// resolving as size+i.
type List struct {
	Elems []Value
}

func (*List) valueMarker() {}

// NewList constructs a List from a slice, taking ownership of it.
func NewList(elems []Value) *List {
	return &List{Elems: elems}
}

// ResolveIndex resolves a possibly-negative index against size, returning
// the resolved index and whether it is in range.
func ResolveIndex(i, size int) (int, bool) {
	if i < 0 {
		i += size
	}
	return i, i >= 0 && i < size
}

// Map is an insertion-ordered String->Value mapping.
type Map struct {
	keys   []string
	values map[string]Value
}

func (*Map) valueMarker() {}

// NewMap constructs an empty insertion-ordered Map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set inserts or updates a key, preserving first-insertion order.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, preserving the order of the rest.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The returned slice must not
// be mutated by the caller.
func (m *Map) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// ArrayElemKind identifies the element type of a typed Array.
type ArrayElemKind byte

const (
	ArrayElemBool ArrayElemKind = iota
	ArrayElemInt32
	ArrayElemInt64
	ArrayElemFloat64
	ArrayElemValue
)

// Array is a typed, possibly multi-dimensional array. Dims records the
// extent of each dimension; Data is always stored flattened in row-major
// order regardless of dimensionality, matching the codec's flattened
// on-wire representation.
type Array struct {
	Kind ArrayElemKind
	Dims []int
	Data []Value // for ArrayElemValue
	Bits []bool
	I32s []int32
	I64s []int64
	F64s []float64
}

func (*Array) valueMarker() {}

// Len returns the flattened element count.
func (a *Array) Len() int {
	switch a.Kind {
	case ArrayElemBool:
		return len(a.Bits)
	case ArrayElemInt32:
		return len(a.I32s)
	case ArrayElemInt64:
		return len(a.I64s)
	case ArrayElemFloat64:
		return len(a.F64s)
	default:
		return len(a.Data)
	}
}

// Function is an opaque callable handle. The concrete invocation
// mechanism lives in the registry package; Function here is only the
// Value-shaped handle the rest of the core passes around.
type Function struct {
	Name string
	Impl any // registry.MethodImpl, kept as any to avoid an import cycle
}

func (Function) valueMarker() {}

// StringBuilder is a mutable, append-only string accumulator.
type StringBuilder struct {
	Buf []byte
}

func (*StringBuilder) valueMarker() {}

func (sb *StringBuilder) CheckpointTag() byte { return TagStringBuilder }

// RegexMatcher holds the dual-matcher resumable search state. The actual
// regex engine is an external collaborator; this struct only carries
// the resumable search position the core's codec must persist.
type RegexMatcher struct {
	Pattern      string
	Subject      string
	LastPos      int
	GlobalActive bool // true if the "global" cursor-bearing matcher was last used
}

func (*RegexMatcher) valueMarker() {}

func (rm *RegexMatcher) CheckpointTag() byte { return TagRegexMatcher }

// Instance is a user-defined object with named, typed fields and a
// dispatch table. Fields preserves declaration order so equality and
// printing are deterministic.
type Instance struct {
	ClassName string
	Fields    []string
	Values    map[string]Value
}

func (*Instance) valueMarker() {}

func (in *Instance) CheckpointTag() byte { return TagInstance }

// Iterator is the Value-side marker for lazy iterators. The operational
// pull protocol (HasNext/Next, which may suspend) is defined by the iter
// package's Iterator interface, implemented by every concrete iterator
// type alongside this marker — kept separate so this package never has to
// import iter/cont and create a cycle (cont depends on value for AsyncTask
// payloads; iter depends on cont for Step[T]).
type Iterator interface {
	Value
	iteratorMarker()
}

// Field-level tags shared by the codec package (duplicated here, not
// imported, to avoid value<->codec import cycle; codec imports value).
const (
	TagStringBuilder byte = 0xF1
	TagRegexMatcher  byte = 0xF2
	TagInstance      byte = 0xF3
)
