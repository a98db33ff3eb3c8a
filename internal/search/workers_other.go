//go:build !darwin

package search

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// DefaultWorkers returns the number of physical cores, or the logical CPU
// count when the CPU does not report its topology.
func DefaultWorkers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return clampWorkers(n)
	}
	return clampWorkers(runtime.NumCPU())
}
