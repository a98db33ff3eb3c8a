// Package gitvain rewrites a commit so that its id starts with a chosen prefix.
//
// A git commit id is the SHA-1 of the commit object, and the object records
// the author and committer timestamps to the second. gitvain shifts those two
// timestamps by a few seconds each until the id begins with the requested
// hexadecimal pattern, then moves HEAD to the rewritten commit. Tree, parents,
// message and identities are left untouched.
//
// # Quick Start
//
//	# Navigate to your Git repository
//	cd /path/to/your/repo
//
//	# Give the latest commit an id starting with c0ffee
//	gitvain c0ffee
//
//	# See what would happen without moving HEAD
//	gitvain --dry-run c0ffee
//
//	# Store a default pattern for the repository
//	git config vain.default 00
//	gitvain
//
// # Key Features
//
//   - Smallest change first: offsets are tried along a spiral around (0, 0)
//   - Parallel search: one worker per performance core, first match wins
//   - Safe update: git re-hashes the commit before HEAD moves, and HEAD is
//     only swapped if nobody committed during the search
//   - Two backends: the git binary, or go-git when no binary is installed
//
// # Pattern Length
//
// Each hex character multiplies the expected work by 16. With the default
// bound of 3600 seconds there are about 51.8 million candidates, enough for a
// pattern of six characters most of the time. Longer patterns need a larger
// -bound, which also means larger timestamp shifts.
//
// # Signed Commits
//
// A signed commit keeps its signature header, but the signature no longer
// verifies after the rewrite. gitvain warns before searching.
//
// # Installation
//
//	go install github.com/bashhack/gitvain/cmd/gitvain@latest
//
// For command-line documentation, see the cmd/gitvain package.
package gitvain
