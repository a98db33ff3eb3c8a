package search

import (
	"math"

	"github.com/bashhack/gitvain/internal/commit"
)

// DefaultBound is the spiral radius searched when none is configured. It
// covers about 51.8 million offset pairs, enough for short patterns, while
// keeping both timestamps within an hour of their original values.
const DefaultBound = 3600

// MaxBound is the largest radius whose index range, (2*Bound+1)^2, still fits
// in an int64 with room for the workers' stride.
const MaxBound = 1 << 30

// Spiral enumerates offset pairs on concentric square rings around the
// origin, so smaller joint perturbations are tried first. The origin itself is
// not part of the walk; index 1 is the first pair.
type Spiral struct {
	Bound int64
}

// Max returns the last valid index, (2*Bound+1)^2 - 1. Bounds above MaxBound
// are treated as MaxBound.
func (s Spiral) Max() int64 {
	side := 2*min(s.Bound, MaxBound) + 1
	return side*side - 1
}

// At returns the n-th pair of the walk. It is a pure function of n.
func (s Spiral) At(n int64) commit.Offset {
	ring := (isqrt(n) + 1) / 2
	lt := n - (2*ring-1)*(2*ring-1)
	leg := lt / (2 * ring)
	e := lt - 2*ring*leg - ring + 1

	switch leg {
	case 0:
		return commit.Offset{Author: ring, Committer: e}
	case 1:
		return commit.Offset{Author: -e, Committer: ring}
	case 2:
		return commit.Offset{Author: -ring, Committer: -e}
	default:
		return commit.Offset{Author: e, Committer: -ring}
	}
}

// isqrt returns floor(sqrt(n)) exactly for any non-negative n.
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
