// Package page implements the slotted-page family: a forward-growing
// value region paired with a backward-growing slot directory, configurable
// along four orthogonal axes (index width, offset width, capacity kind,
// directory alignment/mutability).
//
// The index and offset widths are Go type parameters (Page[Idx, Off]); the
// other two axes don't have a natural compile-time representation in Go
// (there is no u4 or u12 type for nibble-aligned directories, and Static
// vs. Dynamic capacity is a page-construction-time choice, not a type), so
// they live in a runtime-validated Config, the tagged-variant fallback
// spec.md itself sanctions for axes generics can't carry.
package page

import "github.com/coredbx/slotheap"

// CapacityKind selects whether a page's usable size is baked in at compile
// time (Static) or recorded in the header at construction time (Dynamic).
type CapacityKind int

const (
	CapacityStatic CapacityKind = iota
	CapacityDynamic
)

// Alignment selects the slot directory's entry packing.
type Alignment int

const (
	// ByteAligned entries are exactly sizeof(Off) bytes wide.
	ByteAligned Alignment = iota
	// NibbleAligned entries are NibbleWidth*4 bits wide, packed two to a
	// byte, low nibble first.
	NibbleAligned
)

// Mutability selects whether a page tracks a write_position header field
// and accepts Alloc/Push.
type Mutability int

const (
	Mutable Mutability = iota
	Readonly
)

// Config carries the two page-configuration axes that don't fit into the
// Page[Idx, Off] type parameters.
type Config struct {
	Capacity  CapacityKind
	// StaticCap is the page's usable byte count when Capacity is
	// CapacityStatic. Ignored otherwise.
	StaticCap uint64

	Alignment Alignment
	// NibbleWidth is the number of nibbles per directory entry when
	// Alignment is NibbleAligned. Must be odd: an even nibble count is a
	// whole number of bytes and belongs to ByteAligned instead.
	NibbleWidth int

	Mutability Mutability
}

func (c Config) validate() error {
	if c.Alignment == NibbleAligned {
		if c.NibbleWidth <= 0 || c.NibbleWidth%2 == 0 {
			return &slotheap.Error{
				Code:    slotheap.ErrInvalidConfiguration,
				Message: "nibble directory width must be a positive odd nibble count",
			}
		}
	}
	if c.Capacity == CapacityStatic && c.StaticCap == 0 {
		return &slotheap.Error{
			Code:    slotheap.ErrInvalidConfiguration,
			Message: "static capacity must be non-zero",
		}
	}
	return nil
}
