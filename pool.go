package md2deck

import "runtime"

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent marp-cli runs; PPTX and PDF output each
	// start a headless Chrome.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ResolvePoolSize determines how many documents to build at once.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
