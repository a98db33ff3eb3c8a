package git

import (
	"context"
	"os/exec"
	"strings"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// CommitStore is the repository access a Miner needs: read the current
// commit, have git compute an object id, and swap HEAD to a new commit.
type CommitStore interface {
	// ReadCurrent returns the raw content of the commit HEAD points to and
	// its object id.
	ReadCurrent(ctx context.Context) (raw []byte, id string, err error)

	// VerifyHash returns the object id the repository computes for raw
	// without storing it.
	VerifyHash(ctx context.Context, raw []byte) (string, error)

	// ReplaceCurrent stores raw and moves HEAD to it. It fails with
	// ErrHashMismatch, before touching the repository, if the stored id
	// would differ from expected.
	ReplaceCurrent(ctx context.Context, raw []byte, expected string) error
}

// DefaultsReader provides the pattern used when none is given on the
// command line.
type DefaultsReader interface {
	DefaultPattern(ctx context.Context) (string, error)
}

// reflogMessage is recorded when HEAD is moved.
const reflogMessage = "gitvain: rewrite commit timestamps"

// IsRepository checks if the given path is a git repository
// Returns true if it is a repository, false otherwise.
// If path is not a repository due to git exit code 128, returns (false, nil).
// For other errors (git not found, permission issues, etc), returns (false, err).
func IsRepository(ctx context.Context, executor CommandExecutor, path string) (bool, error) {
	err := executor.ExecuteWithContext(ctx, "git", "-C", path, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		// 128 is git's generic fatal exit code; for rev-parse it almost
		// always means there is no repository at path.
		var exitErr *exec.ExitError
		if vainErrors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// exitCode returns the exit status carried by err, or -1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if vainErrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// checkExpected compares a repository computed id against the id the
// search produced.
func checkExpected(expected, actual string) error {
	if !strings.EqualFold(expected, actual) {
		return vainErrors.NewVerificationError(expected, actual)
	}
	return nil
}
