package lock

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// Locker prevents two gitvain runs from rewriting the same repository's HEAD
// at once, using a PID file guarded by an advisory lock.
type Locker struct {
	lockFile string
	lockFd   *os.File
	pid      int
	acquired bool
}

// New creates a Locker for the specified repository path. The lock file lives
// in the system temporary directory.
func New(repoPath string) (*Locker, error) {
	return NewInDir(repoPath, os.TempDir())
}

// NewInDir creates a Locker whose lock file is placed in dir.
func NewInDir(repoPath, dir string) (*Locker, error) {
	if err := supported(); err != nil {
		return nil, err
	}

	repoHash := fmt.Sprintf("%x", sha256.Sum256([]byte(repoPath)))[:16]
	lockFile, err := filepath.Abs(filepath.Join(dir, fmt.Sprintf("gitvain-%s.lock", repoHash)))
	if err != nil {
		return nil, vainErrors.NewLockError("", 0, vainErrors.Wrap(err, "failed to resolve lock directory"))
	}

	return &Locker{
		lockFile: lockFile,
		pid:      os.Getpid(),
	}, nil
}

// Path returns the lock file path.
func (l *Locker) Path() string {
	return l.lockFile
}

// Acquired reports whether this Locker currently holds the lock.
func (l *Locker) Acquired() bool {
	return l.acquired
}

// readLockFilePid reads and parses the PID from the lock file
func (l *Locker) readLockFilePid() (int, error) {
	data, err := os.ReadFile(l.lockFile)
	if err != nil {
		return 0, vainErrors.Wrap(err, "failed to read lock file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, vainErrors.Wrap(err, "invalid PID in lock file")
	}
	return pid, nil
}
