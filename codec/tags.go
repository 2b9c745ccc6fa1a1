package codec

import "github.com/jactl-go/corert/corerr"

// Wire tags. The low built-in tags mirror the primitive Value variants;
// 0xF1-0xF3 are reused from value.Tag* so Checkpointable's own
// CheckpointTag() values round-trip without a second mapping table.
const (
	tagNull byte = iota
	tagBool
	tagInt32
	tagInt64
	tagFloat64
	tagDecimal
	tagString
	tagList
	tagMap
	tagArray
	tagBackref // identity table reference, not a fresh value
)

// Version is the current wire format version. A restore whose header
// version does not match is a hard failure — no silent best-effort
// migration.
const Version int32 = 1

var (
	errTruncated       = corerr.NewRuntimeError("codec: truncated buffer", "", 0)
	errVersionMismatch = corerr.AsRuntime(corerr.ErrVersionMismatch, "", 0)
	errUnknownTag      = corerr.NewRuntimeError("codec: unknown wire tag", "", 0)
)
