package codec

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/jactl-go/corert/value"
)

// bufferPool reuses the Writer's scratch byte slice across checkpoints.
var bufferPool = sync.Pool{New: func() any { return make([]byte, 0, 4096) }}

// Writer serializes a value.Value graph to the checkpoint wire format,
// assigning each pointer-identity value (List, Map, Instance,
// Checkpointable) a stable table index the first time it is seen, and
// emitting a tagBackref on every subsequent encounter — this is what
// preserves shared references and cycles across a restore.
type Writer struct {
	buf     []byte
	objects []any   // object table, append-only, index == identity id
	index   map[any]int
}

// NewWriter constructs a Writer with a pooled scratch buffer.
func NewWriter() *Writer {
	return &Writer{buf: bufferPool.Get().([]byte)[:0], index: make(map[any]int)}
}

// Release returns the Writer's buffer to the pool, or drops it if it grew
// beyond 16 KiB so the pool does not retain oversized buffers. Callers
// must not use the Writer after calling Release; the slice returned by
// Finish is a separate copy and stays valid.
func (w *Writer) Release() {
	if cap(w.buf) <= 16<<10 {
		bufferPool.Put(w.buf[:0])
	}
	w.buf = nil
}

// WriteValue encodes v into the Writer's buffer, deduplicating identity
// for any pointer-typed Value already seen in this Writer's lifetime.
func (w *Writer) WriteValue(v value.Value) {
	if id, ok := w.identityOf(v); ok {
		if prevIdx, seen := w.index[id]; seen {
			w.buf = append(w.buf, tagBackref)
			w.buf = writeCInt(w.buf, int32(prevIdx))
			return
		}
		w.index[id] = len(w.objects)
		w.objects = append(w.objects, v)
	}
	w.encodeBody(v)
}

// identityOf returns a stable comparable key for v's pointer identity,
// and whether v is an identity-bearing (rather than primitive) type.
func (w *Writer) identityOf(v value.Value) (any, bool) {
	switch p := v.(type) {
	case *value.List:
		return p, true
	case *value.Map:
		return p, true
	case *value.Instance:
		return p, true
	case *value.Array:
		return p, true
	case *value.StringBuilder:
		return p, true
	case *value.RegexMatcher:
		return p, true
	default:
		return nil, false
	}
}

func (w *Writer) encodeBody(v value.Value) {
	switch t := v.(type) {
	case value.Null:
		w.buf = append(w.buf, tagNull)
	case value.Bool:
		w.buf = append(w.buf, tagBool)
		if t {
			w.buf = append(w.buf, 1)
		} else {
			w.buf = append(w.buf, 0)
		}
	case value.Int32:
		w.buf = append(w.buf, tagInt32)
		w.buf = writeCInt(w.buf, int32(t))
	case value.Int64:
		w.buf = append(w.buf, tagInt64)
		w.buf = writeCLong(w.buf, int64(t))
	case value.Float64:
		w.buf = append(w.buf, tagFloat64)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(float64(t)))
		w.buf = append(w.buf, tmp[:]...)
	case value.Decimal:
		w.buf = append(w.buf, tagDecimal)
		w.writeString(t.String())
	case value.String:
		w.buf = append(w.buf, tagString)
		w.writeString(string(t))
	case *value.List:
		w.buf = append(w.buf, tagList)
		w.buf = writeCInt(w.buf, int32(len(t.Elems)))
		for _, e := range t.Elems {
			w.WriteValue(e)
		}
	case *value.Map:
		w.buf = append(w.buf, tagMap)
		keys := t.Keys()
		w.buf = writeCInt(w.buf, int32(len(keys)))
		for _, k := range keys {
			w.writeString(k)
			val, _ := t.Get(k)
			w.WriteValue(val)
		}
	case *value.Array:
		w.encodeArray(t)
	case value.Checkpointable:
		w.buf = append(w.buf, t.CheckpointTag())
		w.encodeCheckpointable(t)
	default:
		// Unreachable for the closed Value set this package knows
		// about; a host-added Value type must implement Checkpointable.
		w.buf = append(w.buf, tagNull)
	}
}

func (w *Writer) writeString(s string) {
	w.buf = writeCInt(w.buf, int32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) encodeArray(a *value.Array) {
	w.buf = append(w.buf, tagArray)
	w.buf = append(w.buf, byte(a.Kind))
	w.buf = writeCInt(w.buf, int32(len(a.Dims)))
	for _, d := range a.Dims {
		w.buf = writeCInt(w.buf, int32(d))
	}
	n := a.Len()
	w.buf = writeCInt(w.buf, int32(n))
	switch a.Kind {
	case value.ArrayElemBool:
		for _, b := range a.Bits {
			if b {
				w.buf = append(w.buf, 1)
			} else {
				w.buf = append(w.buf, 0)
			}
		}
	case value.ArrayElemInt32:
		for _, x := range a.I32s {
			w.buf = writeCInt(w.buf, x)
		}
	case value.ArrayElemInt64:
		for _, x := range a.I64s {
			w.buf = writeCLong(w.buf, x)
		}
	case value.ArrayElemFloat64:
		var tmp [8]byte
		for _, x := range a.F64s {
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(x))
			w.buf = append(w.buf, tmp[:]...)
		}
	default:
		for _, v := range a.Data {
			w.WriteValue(v)
		}
	}
}

func (w *Writer) encodeCheckpointable(v value.Checkpointable) {
	switch t := v.(type) {
	case *value.StringBuilder:
		w.buf = writeCInt(w.buf, int32(len(t.Buf)))
		w.buf = append(w.buf, t.Buf...)
	case *value.RegexMatcher:
		w.writeString(t.Pattern)
		w.writeString(t.Subject)
		w.buf = writeCInt(w.buf, int32(t.LastPos))
		if t.GlobalActive {
			w.buf = append(w.buf, 1)
		} else {
			w.buf = append(w.buf, 0)
		}
	case *value.Instance:
		w.writeString(t.ClassName)
		w.buf = writeCInt(w.buf, int32(len(t.Fields)))
		for _, f := range t.Fields {
			w.writeString(f)
			w.WriteValue(t.Values[f])
		}
	}
}

// Finish assembles the final header-prefixed buffer: version, object
// count, and object-table offset, followed by the value body(s) written
// so far. The object table itself is implicit in the backref indices
// already embedded in the body — restore rebuilds it by replaying
// encounters in order, so no separate table section needs writing, only
// its count and the offset at which value decoding may treat every
// already-seen index as resolvable.
func (w *Writer) Finish() []byte {
	header := make([]byte, 0, 16)
	header = writeCInt(header, Version)
	var cnt [4]byte
	binary.LittleEndian.PutUint32(cnt[:], uint32(len(w.objects)))
	header = append(header, cnt[:]...)
	var off [4]byte
	binary.LittleEndian.PutUint32(off[:], uint32(len(header)+4))
	header = append(header, off[:]...)
	return append(header, w.buf...)
}
