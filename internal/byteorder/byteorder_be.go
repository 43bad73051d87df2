//go:build !amd64 && !386 && !arm64 && !arm && !riscv64 && !mips64le && !mipsle && !ppc64le && !wasm

package byteorder

import "encoding/binary"

// On architectures where unaligned little-endian loads aren't a free
// pointer cast, fall back to encoding/binary for correctness.

//go:nosplit
func PutUint64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

//go:nosplit
func PutUint32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

//go:nosplit
func PutUint16(b []byte, v uint16) {
	binary.LittleEndian.PutUint16(b, v)
}

//go:nosplit
func PutUint8(b []byte, v uint8) {
	b[0] = v
}

//go:nosplit
func GetUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

//go:nosplit
func GetUint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

//go:nosplit
func GetUint16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

//go:nosplit
func GetUint8(b []byte) uint8 {
	return b[0]
}
