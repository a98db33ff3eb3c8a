package search

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

func clampWorkers(n int) int {
	if limit := runtime.GOMAXPROCS(0); n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}
	return n
}

// CPUDescription names the processor and whether it has SHA instructions,
// for the debug log.
func CPUDescription() string {
	brand := cpuid.CPU.BrandName
	if brand == "" {
		brand = runtime.GOARCH
	}
	if cpuid.CPU.Supports(cpuid.SHA) {
		return brand + " (sha extensions)"
	}
	return brand
}
