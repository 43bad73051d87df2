//go:build linux

// Package hostmem reports how much address space a page store may still
// grow into, so pagestore can turn a failing growth request into a
// slotheap.Error{Code: ErrOutOfHostMemory} instead of a bare allocation
// panic.
package hostmem

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Headroom returns the number of bytes still available under the
// process's RLIMIT_AS (address space) limit, and whether the limit is
// enforced at all (RLIM_INFINITY reports ok=false: there is no ceiling to
// check against).
func Headroom() (bytes uint64, ok bool) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_AS, &rlim); err != nil {
		return 0, false
	}
	if rlim.Cur == unix.RLIM_INFINITY {
		return 0, false
	}

	limit := uint64(rlim.Cur)
	used, ok := selfVirtualMemory()
	if !ok {
		return limit, true
	}
	if used >= limit {
		return 0, true
	}
	return limit - used, true
}

// selfVirtualMemory reads this process's own virtual memory size (the
// same quantity RLIMIT_AS bounds) from /proc/self/status's VmSize field,
// in bytes. This is deliberately the calling process's own usage, not a
// system-wide figure: RLIMIT_AS is a per-process limit, so headroom
// against it has to be computed from what this process itself has
// mapped, not from what every process on the host has consumed.
func selfVirtualMemory() (uint64, bool) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "VmSize:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb * 1024, true
	}
	return 0, false
}
