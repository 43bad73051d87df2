package page

import (
	"unsafe"

	"github.com/coredbx/slotheap/internal/byteorder"
)

// width is the underlying constraint shared by IndexWidth and
// OffsetWidth: both axes admit the same set of unsigned integer types, so
// sizeOf below can be generic over either.
type width interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IndexWidth is the set of integer types usable as a page's slot count /
// slot index representation.
type IndexWidth = width

// OffsetWidth is the set of integer types usable for a page's byte
// positions: the header's last_byte and write_position fields, and
// ByteAligned directory entries. NibbleAligned directories don't use Off
// directly (there is no 4-bit or 12-bit Go integer type); its entry width
// comes from Config.NibbleWidth instead.
type OffsetWidth = width

// Page is a slotted page over a caller-owned buffer: a header, a
// forward-growing region of value bodies, and a backward-growing
// directory of slot offsets.
type Page[Idx IndexWidth, Off OffsetWidth] struct {
	buf []byte
	cfg Config

	idxWidth int
	offWidth int

	lenOff      int
	lastByteOff int
	writePosOff int
	headerSize  int
}

func sizeOf[T width]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// New wraps buf as a page using cfg. It does not touch the buffer's
// contents; call Init to format a fresh page, or rely on the buffer
// already holding a validly formatted page (e.g. one read back from a
// page store, or one hand-populated as a Readonly page).
func New[Idx IndexWidth, Off OffsetWidth](buf []byte, cfg Config) (*Page[Idx, Off], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := &Page[Idx, Off]{
		buf:      buf,
		cfg:      cfg,
		idxWidth: sizeOf[Idx](),
		offWidth: sizeOf[Off](),
	}

	off := p.idxWidth
	p.lenOff = 0
	if cfg.Capacity == CapacityDynamic {
		p.lastByteOff = off
		off += p.offWidth
	}
	if cfg.Mutability == Mutable {
		p.writePosOff = off
		off += p.offWidth
	}
	p.headerSize = off

	return p, nil
}

// Init formats a fresh page with the given usable capacity (only
// meaningful when cfg.Capacity is CapacityDynamic; Static pages ignore it
// in favor of cfg.StaticCap) and returns the bytes immediately available
// for a first value.
func (p *Page[Idx, Off]) Init(capacity uint64) (int, error) {
	p.setCount(0)
	if p.cfg.Capacity == CapacityDynamic {
		byteorder.PutWidth(p.buf[p.lastByteOff:], p.offWidth, capacity-1)
	}
	if p.cfg.Mutability == Mutable {
		byteorder.PutWidth(p.buf[p.writePosOff:], p.offWidth, 0)
	}
	return p.Available(), nil
}

func (p *Page[Idx, Off]) capacity() uint64 {
	if p.cfg.Capacity == CapacityStatic {
		return p.cfg.StaticCap
	}
	return byteorder.GetWidth(p.buf[p.lastByteOff:], p.offWidth) + 1
}

// Count returns the number of values currently stored.
func (p *Page[Idx, Off]) Count() Idx {
	return Idx(byteorder.GetWidth(p.buf[p.lenOff:], p.idxWidth))
}

func (p *Page[Idx, Off]) setCount(n uint64) {
	byteorder.PutWidth(p.buf[p.lenOff:], p.idxWidth, n)
}

func (p *Page[Idx, Off]) frontier() uint64 {
	if p.cfg.Mutability == Mutable {
		return byteorder.GetWidth(p.buf[p.writePosOff:], p.offWidth)
	}
	// Readonly pages carry no write_position; the value region is assumed
	// to be fully packed up to where the directory begins.
	pageCap := p.capacity()
	dir := uint64(p.directoryBytes(int(p.Count())))
	if dir > pageCap {
		return 0
	}
	return pageCap - dir
}

func (p *Page[Idx, Off]) setFrontier(v uint64) {
	byteorder.PutWidth(p.buf[p.writePosOff:], p.offWidth, v)
}

// directoryBytes returns the number of bytes the slot directory for n
// entries occupies.
func (p *Page[Idx, Off]) directoryBytes(n int) int {
	if p.cfg.Alignment == ByteAligned {
		return n * p.offWidth
	}
	nibbles := n * p.cfg.NibbleWidth
	return (nibbles + 1) / 2
}

// Available returns the number of bytes usable for one more value, after
// accounting for the directory slot its insertion would consume.
func (p *Page[Idx, Off]) Available() int {
	if p.cfg.Mutability == Readonly {
		return 0
	}
	pageCap := p.capacity()
	used := uint64(p.headerSize) + p.frontier() + uint64(p.directoryBytes(int(p.Count())+1))
	if used >= pageCap {
		return 0
	}
	return int(pageCap - used)
}

// Get returns a cursor to the value at slot, running from its start to
// the page's current frontier. Value bodies carry no self-length; the
// caller is expected to know (from elsewhere in the data model) how many
// of the returned bytes belong to it.
func (p *Page[Idx, Off]) Get(slot Idx) ([]byte, error) {
	if uint64(slot) >= uint64(p.Count()) {
		return nil, ErrSlotOutOfRange
	}
	relOff := p.readDirEntry(int(slot))
	start := p.headerSize + int(relOff)
	end := p.headerSize + int(p.frontier())
	if start > end || start > len(p.buf) || end > len(p.buf) {
		return nil, ErrSlotOutOfRange
	}
	return p.buf[start:end], nil
}

// Alloc reserves size bytes at the current frontier, records a new
// directory entry pointing at them, and returns the reserved span for the
// caller to fill.
func (p *Page[Idx, Off]) Alloc(size int) ([]byte, error) {
	if p.cfg.Mutability == Readonly {
		return nil, ErrReadOnly
	}
	if size < 0 || size > p.Available() {
		return nil, ErrInsufficientSpace
	}

	count := p.Count()
	relOff := p.frontier()
	start := p.headerSize + int(relOff)

	p.writeDirEntry(int(count), relOff)
	p.setFrontier(relOff + uint64(size))
	p.setCount(uint64(count) + 1)

	return p.buf[start : start+size], nil
}

// Push copies src into a freshly allocated slot and returns its index.
func (p *Page[Idx, Off]) Push(src []byte) (Idx, error) {
	slot := p.Count()
	dst, err := p.Alloc(len(src))
	if err != nil {
		return 0, err
	}
	copy(dst, src)
	return slot, nil
}

// readDirEntry returns the value-region-relative byte offset stored in
// directory slot k.
func (p *Page[Idx, Off]) readDirEntry(k int) uint64 {
	if p.cfg.Alignment == ByteAligned {
		pos := len(p.buf) - (k+1)*p.offWidth
		return byteorder.GetWidth(p.buf[pos:], p.offWidth)
	}
	return p.readNibbleEntry(k)
}

func (p *Page[Idx, Off]) writeDirEntry(k int, v uint64) {
	if p.cfg.Alignment == ByteAligned {
		pos := len(p.buf) - (k+1)*p.offWidth
		byteorder.PutWidth(p.buf[pos:], p.offWidth, v)
		return
	}
	p.writeNibbleEntry(k, v)
}

// Nibble-aligned directories pack entries from the end of the page
// backward, nibble 0 being the low nibble of the page's last byte's
// opposite end: nibble index i lives in byte i/2, low half when i is
// even, high half when i is odd. Entry k occupies the NibbleWidth nibbles
// ending at the page's nibble count minus k*NibbleWidth, stored
// little-endian (the lowest-indexed nibble in the entry is its least
// significant).
func (p *Page[Idx, Off]) nibbleAt(i int) uint64 {
	b := p.buf[i/2]
	if i%2 == 0 {
		return uint64(b & 0x0F)
	}
	return uint64(b >> 4)
}

func (p *Page[Idx, Off]) setNibbleAt(i int, v uint64) {
	bi := i / 2
	b := p.buf[bi]
	if i%2 == 0 {
		p.buf[bi] = (b & 0xF0) | byte(v&0x0F)
	} else {
		p.buf[bi] = (b & 0x0F) | byte((v&0x0F)<<4)
	}
}

func (p *Page[Idx, Off]) readNibbleEntry(k int) uint64 {
	w := p.cfg.NibbleWidth
	total := len(p.buf) * 2
	start := total - (k+1)*w
	var v uint64
	for i := 0; i < w; i++ {
		v |= p.nibbleAt(start+i) << uint(4*i)
	}
	return v
}

func (p *Page[Idx, Off]) writeNibbleEntry(k int, v uint64) {
	w := p.cfg.NibbleWidth
	total := len(p.buf) * 2
	start := total - (k+1)*w
	for i := 0; i < w; i++ {
		p.setNibbleAt(start+i, (v>>uint(4*i))&0x0F)
	}
}
