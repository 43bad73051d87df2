//go:build !unix

package hostmem

// Headroom has no portable implementation outside unix; callers fall back
// to attempting the allocation and reporting whatever error the runtime
// gives back.
func Headroom() (bytes uint64, ok bool) {
	return 0, false
}
