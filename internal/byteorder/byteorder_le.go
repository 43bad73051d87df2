//go:build amd64 || 386 || arm64 || arm || riscv64 || mips64le || mipsle || ppc64le || wasm

// Package byteorder provides little-endian fixed-width integer encode/decode
// over byte slices, used by the page package for its header fields and
// byte-aligned directory entries. Split into an
// unsafe-pointer fast path for little-endian architectures and an
// encoding/binary fallback elsewhere, the way gdbx splits its own
// endian_le.go / endian_be.go.
package byteorder

import "unsafe"

//go:nosplit
func PutUint64(b []byte, v uint64) {
	_ = b[7]
	*(*uint64)(unsafe.Pointer(&b[0])) = v
}

//go:nosplit
func PutUint32(b []byte, v uint32) {
	_ = b[3]
	*(*uint32)(unsafe.Pointer(&b[0])) = v
}

//go:nosplit
func PutUint16(b []byte, v uint16) {
	_ = b[1]
	*(*uint16)(unsafe.Pointer(&b[0])) = v
}

//go:nosplit
func PutUint8(b []byte, v uint8) {
	b[0] = v
}

//go:nosplit
func GetUint64(b []byte) uint64 {
	_ = b[7]
	return *(*uint64)(unsafe.Pointer(&b[0]))
}

//go:nosplit
func GetUint32(b []byte) uint32 {
	_ = b[3]
	return *(*uint32)(unsafe.Pointer(&b[0]))
}

//go:nosplit
func GetUint16(b []byte) uint16 {
	_ = b[1]
	return *(*uint16)(unsafe.Pointer(&b[0]))
}

//go:nosplit
func GetUint8(b []byte) uint8 {
	return b[0]
}
