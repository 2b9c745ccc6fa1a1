package value

// Equal implements the language's equality rules: primitives compare by value with
// numeric widening; lists equal elementwise; maps equal by same key set
// and pairwise-equal values; instances equal elementwise over declared
// fields; cross comparisons between maps and instances compare the map's
// keys against the instance's declared field names.
//
// visiting guards against cycles: two cyclic graphs compare equal if
// their structure is equal up to the point a cycle is re-entered on both
// sides simultaneously (the pair has already been assumed equal).
func Equal(a, b Value) bool {
	return equal(a, b, map[pairKey]bool{})
}

type pairKey struct{ a, b Value }

func equal(a, b Value, visiting map[pairKey]bool) bool {
	if IsNumeric(a) && IsNumeric(b) {
		c, err := Compare(a, b)
		return err == nil && c == 0
	}
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		key := pairKey{x, y}
		if visiting[key] {
			return true
		}
		visiting[key] = true
		for i := range x.Elems {
			if !equal(x.Elems[i], y.Elems[i], visiting) {
				return false
			}
		}
		return true
	case *Map:
		return equalMapLike(x, b, visiting)
	case *Instance:
		return equalInstanceLike(x, b, visiting)
	case *Array:
		y, ok := b.(*Array)
		return ok && arrayEqual(x, y)
	default:
		return a == b
	}
}

func equalMapLike(m *Map, b Value, visiting map[pairKey]bool) bool {
	switch y := b.(type) {
	case *Map:
		if m.Len() != y.Len() {
			return false
		}
		key := pairKey{m, y}
		if visiting[key] {
			return true
		}
		visiting[key] = true
		for _, k := range m.Keys() {
			mv, _ := m.Get(k)
			yv, ok := y.Get(k)
			if !ok || !equal(mv, yv, visiting) {
				return false
			}
		}
		return true
	case *Instance:
		return equalMapToInstance(m, y, visiting)
	default:
		return false
	}
}

func equalInstanceLike(in *Instance, b Value, visiting map[pairKey]bool) bool {
	switch y := b.(type) {
	case *Instance:
		if in.ClassName != y.ClassName || len(in.Fields) != len(y.Fields) {
			return false
		}
		key := pairKey{in, y}
		if visiting[key] {
			return true
		}
		visiting[key] = true
		for _, f := range in.Fields {
			if !equal(in.Values[f], y.Values[f], visiting) {
				return false
			}
		}
		return true
	case *Map:
		return equalMapToInstance(y, in, visiting)
	default:
		return false
	}
}

func equalMapToInstance(m *Map, in *Instance, visiting map[pairKey]bool) bool {
	if m.Len() != len(in.Fields) {
		return false
	}
	for _, f := range in.Fields {
		mv, ok := m.Get(f)
		if !ok || !equal(mv, in.Values[f], visiting) {
			return false
		}
	}
	return true
}

func arrayEqual(a, b *Array) bool {
	if a.Kind != b.Kind || len(a.Dims) != len(b.Dims) {
		return false
	}
	for i := range a.Dims {
		if a.Dims[i] != b.Dims[i] {
			return false
		}
	}
	switch a.Kind {
	case ArrayElemBool:
		return slicesEqual(a.Bits, b.Bits)
	case ArrayElemInt32:
		return slicesEqual(a.I32s, b.I32s)
	case ArrayElemInt64:
		return slicesEqual(a.I64s, b.I64s)
	case ArrayElemFloat64:
		return slicesEqual(a.F64s, b.F64s)
	default:
		if len(a.Data) != len(b.Data) {
			return false
		}
		for i := range a.Data {
			if !Equal(a.Data[i], b.Data[i]) {
				return false
			}
		}
		return true
	}
}

func slicesEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
