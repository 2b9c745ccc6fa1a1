package value

import (
	"fmt"
	"math/big"
)

// The full numeric tower (trig, rounding modes, bases, bitwise ops on
// arbitrary widths, etc.) is out of scope here and delegated to an
// external arithmetic helper. This file implements only the minimal
// widen/compare/add/divide primitives the iterator pipeline's
// sum/avg/min/max operators require: widening order Int32 < Int64 <
// Float64 < Decimal, with equality/ordering across numeric types by
// mathematical value.

// Widen promotes a and b to their common rank and returns values of that
// common rank (still tagged as their respective Value types at that
// rank).
func Widen(a, b Value) (Value, Value, error) {
	ra, rb := NumericRank(a), NumericRank(b)
	if ra < 0 || rb < 0 {
		return nil, nil, fmt.Errorf("corert/value: not numeric: %T, %T", a, b)
	}
	rank := ra
	if rb > rank {
		rank = rb
	}
	wa, err := widenTo(a, rank)
	if err != nil {
		return nil, nil, err
	}
	wb, err := widenTo(b, rank)
	if err != nil {
		return nil, nil, err
	}
	return wa, wb, nil
}

func widenTo(v Value, rank int) (Value, error) {
	if NumericRank(v) == rank {
		return v, nil
	}
	switch rank {
	case 1:
		return Int64(toInt64(v)), nil
	case 2:
		return Float64(toFloat64(v)), nil
	case 3:
		return toDecimal(v), nil
	default:
		return nil, fmt.Errorf("corert/value: cannot widen %T to rank %d", v, rank)
	}
}

func toInt64(v Value) int64 {
	switch t := v.(type) {
	case Int32:
		return int64(t)
	case Int64:
		return int64(t)
	default:
		return 0
	}
}

func toFloat64(v Value) float64 {
	switch t := v.(type) {
	case Int32:
		return float64(t)
	case Int64:
		return float64(t)
	case Float64:
		return float64(t)
	default:
		return 0
	}
}

func toDecimal(v Value) Decimal {
	switch t := v.(type) {
	case Int32:
		return NewDecimalFromInt(int64(t))
	case Int64:
		return NewDecimalFromInt(int64(t))
	case Float64:
		f := new(big.Float).SetPrec(DecimalPrecision)
		f.SetFloat64(float64(t))
		return Decimal{V: f}
	case Decimal:
		return t
	default:
		return NewDecimalFromInt(0)
	}
}

// Add performs widened numeric addition, per sum()'s widening behavior.
func Add(a, b Value) (Value, error) {
	wa, wb, err := Widen(a, b)
	if err != nil {
		return nil, err
	}
	switch x := wa.(type) {
	case Int32:
		return Int32(x + wb.(Int32)), nil
	case Int64:
		return Int64(x + wb.(Int64)), nil
	case Float64:
		return Float64(x + wb.(Float64)), nil
	case Decimal:
		r := new(big.Float).SetPrec(DecimalPrecision)
		r.Add(x.V, wb.(Decimal).V)
		return Decimal{V: r}, nil
	default:
		return nil, fmt.Errorf("corert/value: unreachable widen result %T", wa)
	}
}

// DivideInt divides a Value sum by a plain element count, always
// producing a Decimal (per avg()'s documented result type), unless the
// sum was already Decimal in which case the same Decimal arithmetic path
// is used; the count is always a plain int.
func DivideInt(sum Value, count int) (Value, error) {
	if count == 0 {
		return nil, fmt.Errorf("corert/value: division by zero")
	}
	d := toDecimal(sum)
	divisor := new(big.Float).SetPrec(DecimalPrecision).SetInt64(int64(count))
	r := new(big.Float).SetPrec(DecimalPrecision)
	r.Quo(d.V, divisor)
	return Decimal{V: r}, nil
}

// Compare returns -1, 0, or 1 comparing a and b by mathematical value
// after widening. Non-numeric equal-typed comparisons (String) are
// handled separately by Equal; Compare is numeric-only.
func Compare(a, b Value) (int, error) {
	wa, wb, err := Widen(a, b)
	if err != nil {
		return 0, err
	}
	switch x := wa.(type) {
	case Int32:
		y := wb.(Int32)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	case Int64:
		y := wb.(Int64)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	case Float64:
		y := wb.(Float64)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	case Decimal:
		return x.V.Cmp(wb.(Decimal).V), nil
	default:
		return 0, fmt.Errorf("corert/value: unreachable widen result %T", wa)
	}
}
