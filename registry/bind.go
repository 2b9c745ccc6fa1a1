package registry

import (
	"github.com/jactl-go/corert/corerr"
	"github.com/jactl-go/corert/value"
)

// BindPositional implements the positional binding form: the
// single-list-explosion rule, then ordered assignment against h.Params
// honoring mandatory-argument and trailing-varargs rules.
//
// The explosion rule: if exactly one argument is given and it is a List,
// and h has either exactly one declared Param or exactly one mandatory
// Param, the List is bound as that one parameter's value unchanged.
// Otherwise, a single List argument is exploded into positional arguments
// before ordered binding proceeds.
func BindPositional(h *Handle, args []value.Value) ([]value.Value, error) {
	bound, err := bindOrdered(h, explodeSingleList(h, args))
	if err != nil {
		return nil, err
	}
	return coerceAll(h, bound)
}

func explodeSingleList(h *Handle, args []value.Value) []value.Value {
	if len(args) != 1 {
		return args
	}
	lst, ok := args[0].(*value.List)
	if !ok {
		return args
	}
	if len(h.Params) == 1 || mandatoryCount(h.Params) == 1 {
		return args
	}
	return lst.Elems
}

func mandatoryCount(params []Param) int {
	n := 0
	for _, p := range params {
		if p.Mandatory {
			n++
		}
	}
	return n
}

func bindOrdered(h *Handle, args []value.Value) ([]value.Value, error) {
	fixed := h.Params
	if h.IsVarArgs() && len(fixed) > 0 {
		fixed = fixed[:len(fixed)-1]
	}
	if len(args) < mandatoryCount(fixed) {
		return nil, corerr.NewRuntimeError("missing mandatory argument for "+h.Name, "", 0)
	}
	if !h.IsVarArgs() && len(args) > len(h.Params) {
		return nil, corerr.NewRuntimeError("too many arguments for "+h.Name, "", 0)
	}

	bound := make([]value.Value, len(h.Params))
	for i := range bound {
		bound[i] = value.Null{}
	}
	if !h.IsVarArgs() {
		copy(bound, args)
		return bound, nil
	}

	fixedN := len(fixed)
	for i := 0; i < fixedN && i < len(args); i++ {
		bound[i] = args[i]
	}
	var rest []value.Value
	if len(args) > fixedN {
		rest = append(rest, args[fixedN:]...)
	}
	bound[len(bound)-1] = value.NewList(rest)
	return bound, nil
}

// BindNamed implements the named binding form: m is a single map of
// name -> value. An unknown key is an error; a missing mandatory
// parameter is an error; a trailing varargs parameter, if present, is
// looked up under its own declared name and accepts a List or Array.
func BindNamed(h *Handle, m *value.Map) ([]value.Value, error) {
	declared := make(map[string]int, len(h.Params))
	for i, p := range h.Params {
		declared[p.Name] = i
	}
	for _, k := range m.Keys() {
		if _, ok := declared[k]; !ok {
			return nil, corerr.NewRuntimeError("unknown named argument: "+k, "", 0)
		}
	}

	bound := make([]value.Value, len(h.Params))
	for i, p := range h.Params {
		bound[i] = value.Null{}
		v, present := m.Get(p.Name)
		if !present {
			if p.Mandatory {
				return nil, corerr.NewRuntimeError("missing mandatory argument: "+p.Name, "", 0)
			}
			continue
		}
		if h.IsVarArgs() && i == len(h.Params)-1 {
			bound[i] = coerceVarArgsValue(v)
			continue
		}
		bound[i] = v
	}
	return coerceAll(h, bound)
}

// coerceAll applies each declared Param's coercion target to the matching
// bound argument: arguments are coerced to declared parameter types. A
// varargs parameter's collected List is left alone — coercion targets
// name a scalar type, not a collection shape.
func coerceAll(h *Handle, bound []value.Value) ([]value.Value, error) {
	for i, p := range h.Params {
		if p.Type == ParamAny || (h.IsVarArgs() && i == len(h.Params)-1) {
			continue
		}
		if _, isNull := bound[i].(value.Null); isNull {
			continue
		}
		c, err := coerceScalar(bound[i], p.Type)
		if err != nil {
			return nil, corerr.NewRuntimeError("cannot coerce argument "+p.Name, "", 0).Wrap(err)
		}
		bound[i] = c
	}
	return bound, nil
}

// coerceScalar widens v up to t's rank. Coercion only ever widens — a
// caller passing a higher-rank value (e.g. a Decimal) for a lower-rank
// declared parameter (e.g. Int32) is a shape mismatch, not something this
// module narrows silently, so it is reported as an error rather than
// truncated.
func coerceScalar(v value.Value, t ParamType) (value.Value, error) {
	var target value.Value
	switch t {
	case ParamInt32:
		target = value.Int32(0)
	case ParamInt64:
		target = value.Int64(0)
	case ParamFloat64:
		target = value.Float64(0)
	case ParamDecimal:
		target = value.NewDecimalFromInt(0)
	default:
		return v, nil
	}
	if value.NumericRank(v) > value.NumericRank(target) {
		return nil, corerr.NewRuntimeError("cannot narrow argument to declared parameter type", "", 0)
	}
	widened, _, err := value.Widen(v, target)
	return widened, err
}

// coerceVarArgsValue normalizes a named-form varargs value: an Array is
// flattened to a List so both collection forms reach the Impl uniformly;
// anything else (including an already-List value) passes through.
func coerceVarArgsValue(v value.Value) value.Value {
	a, ok := v.(*value.Array)
	if !ok {
		return v
	}
	elems := make([]value.Value, a.Len())
	switch a.Kind {
	case value.ArrayElemBool:
		for i, b := range a.Bits {
			elems[i] = value.Bool(b)
		}
	case value.ArrayElemInt32:
		for i, x := range a.I32s {
			elems[i] = value.Int32(x)
		}
	case value.ArrayElemInt64:
		for i, x := range a.I64s {
			elems[i] = value.Int64(x)
		}
	case value.ArrayElemFloat64:
		for i, x := range a.F64s {
			elems[i] = value.Float64(x)
		}
	default:
		copy(elems, a.Data)
	}
	return value.NewList(elems)
}
