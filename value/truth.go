package value

// Truthy implements the language's truthiness rules: null is false; Boolean is
// itself; numbers are true iff non-zero (Decimal stripped of trailing
// zeros, i.e. iff its big.Float is non-zero); strings, lists, maps,
// arrays are true iff non-empty; any other object is true.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case Null:
		return false
	case Bool:
		return bool(t)
	case Int32:
		return t != 0
	case Int64:
		return t != 0
	case Float64:
		return t != 0
	case Decimal:
		return t.V != nil && t.V.Sign() != 0
	case String:
		return len(t) > 0
	case *List:
		return len(t.Elems) > 0
	case *Map:
		return t.Len() > 0
	case *Array:
		return t.Len() > 0
	default:
		return true
	}
}

// NumericRank orders the numeric widening tower Int32 < Int64 < Float64 <
// Decimal. Returns -1 for non-numeric values.
func NumericRank(v Value) int {
	switch v.(type) {
	case Int32:
		return 0
	case Int64:
		return 1
	case Float64:
		return 2
	case Decimal:
		return 3
	default:
		return -1
	}
}

// IsNumeric reports whether v participates in the numeric tower.
func IsNumeric(v Value) bool {
	return NumericRank(v) >= 0
}
