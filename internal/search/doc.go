// Package search finds a timestamp offset pair that gives a commit a
// requested object id prefix.
//
// A Hasher snapshots SHA-1 state over the constant head of the commit so each
// candidate only hashes the tail from the author timestamp onward. Candidates
// are enumerated by a Spiral, which walks square rings around the original
// timestamps so the smallest joint change is tried first. A Coordinator splits
// the spiral between workers by index residue (worker i takes i, i+T, i+2T and
// so on) and publishes the first match through a compare-and-swap, after which
// every worker stops at its next candidate.
//
// Candidates that would change the decimal width of either timestamp are
// skipped and counted rather than rendered.
package search
