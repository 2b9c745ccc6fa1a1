package codec

import (
	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/value"
)

// FrameCodec is implemented by a Continuation.Frame (an iterator
// operator, a reduce Accumulator) that knows how to serialize its own
// scratch state into value.Value form for checkpointing. Frames that
// don't implement it are still written (MethodLocation and Locals, with a
// flag marking no payload) and are rebuilt on restore by Restore's
// newFrame callback, called with hasFrame false — see DESIGN.md's Open
// Question decision on continuation-frame checkpointing for why this
// module does not attempt a fully generic reflection-based serializer
// for every operator struct.
type FrameCodec interface {
	EncodeFrame() value.Value
}

// Checkpoint serializes a suspended Fiber's pending Continuation chain and
// hands the bytes to commit — the host's hook to persist them (to disk, a
// KV store, etc.). commit is a plain function that runs synchronously on
// the calling goroutine before Checkpoint returns; it cannot suspend. commit's
// return value (or value.Null{} if commit is nil or returns a nil Value)
// becomes the value the script resumes with immediately after the
// checkpoint call, per the checkpoint-while-running protocol: a checkpoint
// may be taken at any suspension point without disturbing the fiber's
// ability to later resume normally. The dual half of this protocol, the
// recover hook invoked on restore, lives on Restore rather than here —
// recover is supplied again at restore time (possibly in a different
// process than the one that checkpointed), since a Go closure cannot
// itself travel through the byte stream.
func Checkpoint(f *cont.Fiber, commit func([]byte) (value.Value, error)) (value.Value, error) {
	pending := f.Snapshot()
	w := NewWriter()
	defer w.Release()

	w.buf = writeCInt(w.buf, int32(chainLength(pending)))
	for c := pending; c != nil; c = c.Outer {
		w.encodeContinuationFrame(c)
	}

	data := append([]byte(nil), w.Finish()...)
	if commit == nil {
		return value.Null{}, nil
	}
	result, err := commit(data)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return value.Null{}, nil
	}
	return result, nil
}

func chainLength(c *cont.Continuation) int {
	n := 0
	for ; c != nil; c = c.Outer {
		n++
	}
	return n
}

func (w *Writer) encodeContinuationFrame(c *cont.Continuation) {
	w.buf = writeCInt(w.buf, int32(c.MethodLocation))
	w.buf = writeCInt(w.buf, int32(len(c.Locals)))
	for _, l := range c.Locals {
		w.buf = writeCLong(w.buf, l)
	}
	if fc, ok := c.Frame.(FrameCodec); ok {
		w.buf = append(w.buf, 1)
		w.WriteValue(fc.EncodeFrame())
	} else {
		w.buf = append(w.buf, 0)
	}
}

// Restore reinflates a Fiber from a checkpoint produced by Checkpoint.
// newFrame is called once per saved frame (outermost first) to let the
// host rebuild the operator/accumulator the Continuation.Frame held —
// typically by re-running the pipeline construction code and, if the
// frame carried an encoded value (hasFrame), feeding it to whatever
// per-operator constructor understands its own EncodeFrame output. A
// restore whose header version does not match this package's Version is a
// hard failure (returned as an error) — no partial or best-effort restore
// across versions.
//
// recover is the other half of the checkpoint-while-running protocol: if
// non-nil it is invoked once, before Restore returns, and its result is
// the synthetic value the caller should feed into the restored Fiber's
// Resume to re-enter the checkpoint() call with recover's result, in
// place of the value commit returned on the original run. recover may be
// nil, in which case the
// synthetic value is value.Null{} — Restore never calls Resume itself, so
// the caller stays in control of exactly when re-entry happens.
func Restore(data []byte, id uint64, rt *cont.Runtime, op cont.Op, newFrame func(encoded value.Value, hasFrame bool) any, recover func() (value.Value, error)) (*cont.Fiber, value.Value, error) {
	r, err := NewReader(data)
	if err != nil {
		return nil, nil, err
	}

	count, n, err := readCInt(r.buf[r.pos:])
	if err != nil {
		return nil, nil, err
	}
	r.pos += n

	frames := make([]*cont.Continuation, count)
	for i := int32(0); i < count; i++ {
		loc, adv, err := readCInt(r.buf[r.pos:])
		if err != nil {
			return nil, nil, err
		}
		r.pos += adv
		nLocals, adv, err := readCInt(r.buf[r.pos:])
		if err != nil {
			return nil, nil, err
		}
		r.pos += adv
		locals := make([]int64, nLocals)
		for j := range locals {
			v, adv, err := readCLong(r.buf[r.pos:])
			if err != nil {
				return nil, nil, err
			}
			r.pos += adv
			locals[j] = v
		}
		hasFrame := r.buf[r.pos] != 0
		r.pos++
		var encoded value.Value
		if hasFrame {
			encoded, err = r.ReadValue()
			if err != nil {
				return nil, nil, err
			}
		}
		frames[i] = &cont.Continuation{
			Frame:          newFrame(encoded, hasFrame),
			MethodLocation: int(loc),
			Locals:         locals,
		}
	}
	for i := 0; i < len(frames)-1; i++ {
		frames[i].Outer = frames[i+1]
	}

	var head *cont.Continuation
	if len(frames) > 0 {
		head = frames[0]
	}
	restored := cont.Restore(id, rt, op, head)

	var synthetic value.Value = value.Null{}
	if recover != nil {
		v, err := recover()
		if err != nil {
			return restored, nil, err
		}
		if v != nil {
			synthetic = v
		}
	}
	return restored, synthetic, nil
}
