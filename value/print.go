package value

import (
	"fmt"
	"io"
	"strings"
)

// Print writes v's script-level textual rendering to w, emitting
// <CIRCULAR_REF> for any object reference already on the current print
// path, rather than recursing forever. This is the one sliver of the
// language's print glue that the codec's identity-table idea must also
// serve — cycle detection during printing, not during checkpoint — so
// it is implemented here as a standalone adapter rather than a
// reimplementation of print/nextLine.
func Print(w io.Writer, v Value) error {
	return printValue(w, v, map[Value]bool{})
}

func printValue(w io.Writer, v Value, visiting map[Value]bool) error {
	switch t := v.(type) {
	case nil, Null:
		_, err := io.WriteString(w, "null")
		return err
	case Bool:
		_, err := fmt.Fprintf(w, "%t", bool(t))
		return err
	case Int32:
		_, err := fmt.Fprintf(w, "%d", int32(t))
		return err
	case Int64:
		_, err := fmt.Fprintf(w, "%d", int64(t))
		return err
	case Float64:
		_, err := fmt.Fprintf(w, "%v", float64(t))
		return err
	case Decimal:
		_, err := io.WriteString(w, t.String())
		return err
	case String:
		_, err := fmt.Fprintf(w, "%q", string(t))
		return err
	case *List:
		return printList(w, t, visiting)
	case *Map:
		return printMap(w, t, visiting)
	case *Instance:
		return printInstance(w, t, visiting)
	case *Array:
		return printArray(w, t)
	default:
		_, err := fmt.Fprintf(w, "%v", v)
		return err
	}
}

func printList(w io.Writer, l *List, visiting map[Value]bool) error {
	if visiting[l] {
		_, err := io.WriteString(w, "<CIRCULAR_REF>")
		return err
	}
	visiting[l] = true
	defer delete(visiting, l)

	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, e := range l.Elems {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if err := printValue(w, e, visiting); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

func printMap(w io.Writer, m *Map, visiting map[Value]bool) error {
	if visiting[m] {
		_, err := io.WriteString(w, "<CIRCULAR_REF>")
		return err
	}
	visiting[m] = true
	defer delete(visiting, m)

	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	if m.Len() == 0 {
		_, err := io.WriteString(w, ":]")
		return err
	}
	for i, k := range m.Keys() {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		v, _ := m.Get(k)
		if _, err := fmt.Fprintf(w, "%s: ", k); err != nil {
			return err
		}
		if err := printValue(w, v, visiting); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

func printInstance(w io.Writer, in *Instance, visiting map[Value]bool) error {
	if visiting[in] {
		_, err := io.WriteString(w, "<CIRCULAR_REF>")
		return err
	}
	visiting[in] = true
	defer delete(visiting, in)

	parts := make([]string, 0, len(in.Fields))
	for _, f := range in.Fields {
		var sb strings.Builder
		if err := printValue(&sb, in.Values[f], visiting); err != nil {
			return err
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f, sb.String()))
	}
	_, err := fmt.Fprintf(w, "%s[%s]", in.ClassName, strings.Join(parts, ", "))
	return err
}

func printArray(w io.Writer, a *Array) error {
	_, err := fmt.Fprintf(w, "%v", a)
	return err
}
