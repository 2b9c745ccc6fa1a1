package codec

import "encoding/binary"

// cint/clong are zigzag-encoded LEB128 varints, the same compact
// variable-length integer scheme used by protobuf and by other
// wire-format helpers — chosen over fixed-width ints for the common
// case of small locals/counts dominating a checkpoint's size.

func writeCInt(buf []byte, v int32) []byte {
	return writeZigzag(buf, int64(v))
}

func writeCLong(buf []byte, v int64) []byte {
	return writeZigzag(buf, v)
}

func writeZigzag(buf []byte, v int64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	zz := uint64((v << 1) ^ (v >> 63))
	n := binary.PutUvarint(tmp[:], zz)
	return append(buf, tmp[:n]...)
}

func readCInt(buf []byte) (int32, int, error) {
	v, n, err := readZigzag(buf)
	return int32(v), n, err
}

func readCLong(buf []byte) (int64, int, error) {
	return readZigzag(buf)
}

func readZigzag(buf []byte) (int64, int, error) {
	zz, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, errTruncated
	}
	v := int64(zz>>1) ^ -int64(zz&1)
	return v, n, nil
}
