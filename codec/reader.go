package codec

import (
	"encoding/binary"
	"math"

	"github.com/jactl-go/corert/value"
)

// Reader deserializes a checkpoint produced by Writer, rebuilding object
// identity from the backref indices embedded in the stream in the exact
// order Writer assigned them.
type Reader struct {
	buf     []byte
	pos     int
	objects []value.Value
	Version int32
}

// NewReader parses buf's header and positions the Reader at the first
// value body. A version mismatch is a hard failure: callers must not
// attempt a best-effort restore across versions.
func NewReader(buf []byte) (*Reader, error) {
	version, n, err := readCInt(buf)
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, errVersionMismatch
	}
	rest := buf[n:]
	if len(rest) < 8 {
		return nil, errTruncated
	}
	objCount := binary.LittleEndian.Uint32(rest[0:4])
	r := &Reader{buf: buf, Version: version, objects: make([]value.Value, 0, objCount)}
	r.pos = n + 8
	return r, nil
}

// ReadValue decodes the next value.Value from the stream.
func (r *Reader) ReadValue() (value.Value, error) {
	if r.pos >= len(r.buf) {
		return nil, errTruncated
	}
	tag := r.buf[r.pos]
	r.pos++

	switch tag {
	case tagBackref:
		idx, n, err := readCInt(r.buf[r.pos:])
		if err != nil {
			return nil, err
		}
		r.pos += n
		if int(idx) >= len(r.objects) {
			return nil, errTruncated
		}
		return r.objects[idx], nil
	case tagNull:
		return value.Null{}, nil
	case tagBool:
		b := r.buf[r.pos]
		r.pos++
		return value.Bool(b != 0), nil
	case tagInt32:
		v, n, err := readCInt(r.buf[r.pos:])
		if err != nil {
			return nil, err
		}
		r.pos += n
		return value.Int32(v), nil
	case tagInt64:
		v, n, err := readCLong(r.buf[r.pos:])
		if err != nil {
			return nil, err
		}
		r.pos += n
		return value.Int64(v), nil
	case tagFloat64:
		bits := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
		r.pos += 8
		return value.Float64(math.Float64frombits(bits)), nil
	case tagDecimal:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		d, err := value.NewDecimal(s)
		if err != nil {
			return nil, err
		}
		return d, nil
	case tagString:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case tagList:
		return r.readList()
	case tagMap:
		return r.readMap()
	case tagArray:
		return r.readArray()
	case value.TagStringBuilder:
		return r.readStringBuilder()
	case value.TagRegexMatcher:
		return r.readRegexMatcher()
	case value.TagInstance:
		return r.readInstance()
	default:
		return nil, errUnknownTag
	}
}

func (r *Reader) readString() (string, error) {
	n, adv, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return "", err
	}
	r.pos += adv
	if r.pos+int(n) > len(r.buf) {
		return "", errTruncated
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *Reader) readList() (value.Value, error) {
	n, adv, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	r.pos += adv
	list := value.NewList(make([]value.Value, n))
	r.objects = append(r.objects, list)
	for i := range list.Elems {
		v, err := r.ReadValue()
		if err != nil {
			return nil, err
		}
		list.Elems[i] = v
	}
	return list, nil
}

func (r *Reader) readMap() (value.Value, error) {
	n, adv, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	r.pos += adv
	m := value.NewMap()
	r.objects = append(r.objects, m)
	for i := int32(0); i < n; i++ {
		key, err := r.readString()
		if err != nil {
			return nil, err
		}
		v, err := r.ReadValue()
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

func (r *Reader) readArray() (value.Value, error) {
	kind := value.ArrayElemKind(r.buf[r.pos])
	r.pos++
	ndims, adv, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	r.pos += adv
	dims := make([]int, ndims)
	for i := range dims {
		d, a, err := readCInt(r.buf[r.pos:])
		if err != nil {
			return nil, err
		}
		r.pos += a
		dims[i] = int(d)
	}
	n, adv, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	r.pos += adv

	a := &value.Array{Kind: kind, Dims: dims}
	r.objects = append(r.objects, a)
	switch kind {
	case value.ArrayElemBool:
		a.Bits = make([]bool, n)
		for i := range a.Bits {
			a.Bits[i] = r.buf[r.pos] != 0
			r.pos++
		}
	case value.ArrayElemInt32:
		a.I32s = make([]int32, n)
		for i := range a.I32s {
			v, adv, err := readCInt(r.buf[r.pos:])
			if err != nil {
				return nil, err
			}
			r.pos += adv
			a.I32s[i] = v
		}
	case value.ArrayElemInt64:
		a.I64s = make([]int64, n)
		for i := range a.I64s {
			v, adv, err := readCLong(r.buf[r.pos:])
			if err != nil {
				return nil, err
			}
			r.pos += adv
			a.I64s[i] = v
		}
	case value.ArrayElemFloat64:
		a.F64s = make([]float64, n)
		for i := range a.F64s {
			bits := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
			r.pos += 8
			a.F64s[i] = math.Float64frombits(bits)
		}
	default:
		a.Data = make([]value.Value, n)
		for i := range a.Data {
			v, err := r.ReadValue()
			if err != nil {
				return nil, err
			}
			a.Data[i] = v
		}
	}
	return a, nil
}

func (r *Reader) readStringBuilder() (value.Value, error) {
	n, adv, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	r.pos += adv
	sb := &value.StringBuilder{Buf: append([]byte(nil), r.buf[r.pos:r.pos+int(n)]...)}
	r.pos += int(n)
	r.objects = append(r.objects, sb)
	return sb, nil
}

func (r *Reader) readRegexMatcher() (value.Value, error) {
	pattern, err := r.readString()
	if err != nil {
		return nil, err
	}
	subject, err := r.readString()
	if err != nil {
		return nil, err
	}
	lastPos, adv, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	r.pos += adv
	global := r.buf[r.pos] != 0
	r.pos++
	rm := &value.RegexMatcher{Pattern: pattern, Subject: subject, LastPos: int(lastPos), GlobalActive: global}
	r.objects = append(r.objects, rm)
	return rm, nil
}

func (r *Reader) readInstance() (value.Value, error) {
	className, err := r.readString()
	if err != nil {
		return nil, err
	}
	n, adv, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	r.pos += adv
	in := &value.Instance{ClassName: className, Fields: make([]string, n), Values: make(map[string]value.Value, n)}
	r.objects = append(r.objects, in)
	for i := int32(0); i < n; i++ {
		f, err := r.readString()
		if err != nil {
			return nil, err
		}
		v, err := r.ReadValue()
		if err != nil {
			return nil, err
		}
		in.Fields[i] = f
		in.Values[f] = v
	}
	return in, nil
}
