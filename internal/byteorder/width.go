package byteorder

// PutWidth writes the low width*8 bits of v to b in little-endian order.
// width must be one of 1, 2, 4, 8 — the byte-aligned slot-directory entry
// widths spec.md §3 allows.
func PutWidth(b []byte, width int, v uint64) {
	switch width {
	case 1:
		PutUint8(b, uint8(v))
	case 2:
		PutUint16(b, uint16(v))
	case 4:
		PutUint32(b, uint32(v))
	case 8:
		PutUint64(b, v)
	default:
		panic("byteorder: unsupported width")
	}
}

// GetWidth reads a width-byte little-endian unsigned integer from b.
func GetWidth(b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(GetUint8(b))
	case 2:
		return uint64(GetUint16(b))
	case 4:
		return uint64(GetUint32(b))
	case 8:
		return GetUint64(b)
	default:
		panic("byteorder: unsupported width")
	}
}
