// Package codec implements the checkpoint/restore byte format: a header
// (version, objectCount, objTableOffset), an identity-keyed object table
// that preserves cycles and shared references, and per-type tag encoding
// for every value.Value plus a Fiber's suspended Continuation chain.
//
// Writer scratch buffers are pooled via sync.Pool, so repeated
// checkpoints reuse them instead of reallocating.
package codec
