//go:build darwin

package search

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// DefaultWorkers returns the number of performance cores, which on Apple
// silicon is smaller than the logical CPU count. Efficiency cores slow the
// race down more than they help.
func DefaultWorkers() int {
	n, err := unix.SysctlUint32("hw.perflevel0.physicalcpu")
	if err != nil || n == 0 {
		n, err = unix.SysctlUint32("hw.physicalcpu")
	}
	if err != nil || n == 0 {
		return clampWorkers(runtime.NumCPU())
	}
	return clampWorkers(int(n))
}
