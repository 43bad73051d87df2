//go:build unix && !linux

package hostmem

import "golang.org/x/sys/unix"

// Headroom on non-Linux unix platforms reports against RLIMIT_AS alone;
// there is no /proc/self/status VmSize to read this process's own usage
// from, so nothing is subtracted and the whole soft limit is reported.
// The figure is therefore an upper bound on the real headroom, not an
// exact value.
func Headroom() (bytes uint64, ok bool) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_AS, &rlim); err != nil {
		return 0, false
	}
	if rlim.Cur == unix.RLIM_INFINITY {
		return 0, false
	}
	return uint64(rlim.Cur), true
}
