// Package main implements gitvain, a vanity commit id miner.
//
// gitvain rewrites the commit HEAD points to so that its object id starts
// with a chosen hexadecimal prefix. Only the author and committer
// timestamps are changed, each by at most a bounded number of seconds, so
// the tree, parents, message and identities of the commit stay the same.
//
// # Command-Line Documentation
//
// This package provides the command-line interface. The search itself lives
// in internal/search and the repository access in internal/git.
//
// # How It Works
//
// Candidate (author, committer) offsets are visited along a square spiral
// around (0, 0), so the smallest changes are tried first. The hash state of
// the unchanged commit prefix is computed once and restored for each
// candidate. The search is split across one worker per physical core, and
// the first match stops every worker.
//
// Before HEAD is moved, git is asked to hash the prepared commit; the update
// only happens if it agrees. HEAD is then swapped with a compare-and-swap so
// a commit made during the search is never lost.
//
// # Basic Usage
//
//	gitvain c0ffee             # Rewrite HEAD to start with c0ffee
//	gitvain --dry-run c0ffee   # Search only, leave HEAD alone
//	git config vain.default 00 # Set a default pattern
//	gitvain                    # Use vain.default
//
// # Configuration Options
//
//	-dry-run   Search only, do not move HEAD (env: VAIN_DRY_RUN)
//	-repo      Repository path (env: VAIN_REPO_PATH)
//	-workers   Worker count, 0 for one per performance core (env: VAIN_WORKERS)
//	-bound     Maximum timestamp shift in seconds (env: VAIN_BOUND)
//	-backend   "cli" or "go-git" (env: VAIN_BACKEND)
//	-progress  Seconds between progress updates, 0 disables (env: VAIN_PROGRESS_SECONDS)
//	-quiet     Hide informational messages (env: VAIN_VERBOSE=false)
//	-debug     Enable detailed logging (env: VAIN_DEBUG)
//	-log-file  Log file path (env: VAIN_LOG_FILE)
//	-version   Print version information and exit
//
// Not finding a match within the bound exits with status 0 and leaves HEAD
// unchanged. Errors and interrupted searches exit with status 1.
package main
