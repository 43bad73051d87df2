package slotheap

// Page size bounds (spec.md §3: "a compile-time constant in the
// range 2^8 … 2^16"). They are reference values only: heap.New and the
// page stores accept any page size and do not check it against them.
const (
	// MinPageSize is the lower page-size bound (256 bytes).
	MinPageSize = 256

	// MaxPageSize is the upper page-size bound (64KB).
	MaxPageSize = 65536

	// DefaultPageSize is the default page size (4KB).
	DefaultPageSize = 4096
)

// PageID is a dense, nonnegative page identifier handed out by a
// PageAllocator. Ids are never reused within the lifetime of a store.
type PageID uint32

// InvalidPageID marks the absence of a page, analogous to the sentinel
// gdbx uses for an empty B+tree root.
const InvalidPageID PageID = 0xFFFFFFFF

// MaxPageID is the largest page id a 32-bit PageID can represent other
// than the InvalidPageID sentinel, per spec.md §9's "Maximum pages per
// heap" open question resolution (kept at the source's own ceiling rather
// than lifted).
const MaxPageID PageID = InvalidPageID - 1
