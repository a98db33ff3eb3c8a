// Package lock provides file-based locking for gitvain.
//
// Rewriting HEAD from two processes at once would let one rewrite silently
// replace the other, so each run holds a per-repository lock for its whole
// duration. The lock is an advisory flock on a file that also records the
// holder's process ID, which is reported when a second run is refused.
//
// # Usage
//
//	lock, err := lock.New("/path/to/repo")
//	if err != nil {
//	    // Handle error
//	}
//	if err := lock.Acquire(); err != nil {
//	    // errors.ErrAlreadyRunning: another run holds the lock
//	}
//	defer lock.Release()
//
// # Lock Files
//
// Lock files are created in the system's temporary directory:
//
//	/tmp/gitvain-<repo-hash>.lock
//
// where <repo-hash> is derived from the repository's absolute path. A file
// left behind by a crashed run is not locked by anyone and is simply taken
// over.
//
// # System Requirements
//
// Unix-like systems only; New fails elsewhere.
package lock
