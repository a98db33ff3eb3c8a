package git

import (
	"context"
	"strings"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// CLIStore implements CommitStore and DefaultsReader by running the git
// binary against a working tree.
type CLIStore struct {
	repoPath string
	executor CommandExecutor

	// current is the HEAD id returned by the last ReadCurrent; the update
	// is refused if HEAD has moved since.
	current string
}

// NewCLIStore creates a store for the repository at repoPath.
func NewCLIStore(repoPath string, executor CommandExecutor) *CLIStore {
	return &CLIStore{
		repoPath: repoPath,
		executor: executor,
	}
}

// ReadCurrent implements CommitStore.ReadCurrent
func (s *CLIStore) ReadCurrent(ctx context.Context) ([]byte, string, error) {
	out, err := s.git(ctx, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return nil, "", err
	}
	id := strings.TrimSpace(out)

	raw, err := s.git(ctx, "cat-file", "commit", id)
	if err != nil {
		return nil, "", err
	}

	s.current = id
	return []byte(raw), id, nil
}

// VerifyHash implements CommitStore.VerifyHash
func (s *CLIStore) VerifyHash(ctx context.Context, raw []byte) (string, error) {
	out, err := s.gitWithInput(ctx, raw, "hash-object", "-t", "commit", "--stdin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ReplaceCurrent implements CommitStore.ReplaceCurrent. HEAD is moved with
// update-ref against the id seen by ReadCurrent, so a concurrent commit makes
// the update fail instead of being discarded.
func (s *CLIStore) ReplaceCurrent(ctx context.Context, raw []byte, expected string) error {
	actual, err := s.VerifyHash(ctx, raw)
	if err != nil {
		return err
	}
	if err := checkExpected(expected, actual); err != nil {
		return err
	}

	out, err := s.gitWithInput(ctx, raw, "hash-object", "-t", "commit", "-w", "--stdin")
	if err != nil {
		return err
	}
	if err := checkExpected(expected, strings.TrimSpace(out)); err != nil {
		return err
	}

	args := []string{"update-ref", "-m", reflogMessage, "HEAD", expected}
	if s.current != "" {
		args = append(args, s.current)
	}
	return s.run(ctx, args...)
}

// DefaultPattern implements DefaultsReader. An unset vain.default yields an
// empty pattern and no error.
func (s *CLIStore) DefaultPattern(ctx context.Context) (string, error) {
	out, err := s.git(ctx, "config", "--get", "vain.default")
	if err != nil {
		// git config exits 1 when the key is not set.
		if exitCode(err) == 1 {
			return "", nil
		}
		return "", vainErrors.Wrap(err, "failed to read vain.default")
	}
	return strings.TrimSpace(out), nil
}

// run executes a git command in the repository directory with context.
func (s *CLIStore) run(ctx context.Context, args ...string) error {
	allArgs := append([]string{"-C", s.repoPath}, args...)
	return s.executor.ExecuteWithContext(ctx, "git", allArgs...)
}

// git executes a git command and returns its output with context.
func (s *CLIStore) git(ctx context.Context, args ...string) (string, error) {
	allArgs := append([]string{"-C", s.repoPath}, args...)
	return s.executor.ExecuteWithContextAndOutput(ctx, "git", allArgs...)
}

func (s *CLIStore) gitWithInput(ctx context.Context, stdin []byte, args ...string) (string, error) {
	allArgs := append([]string{"-C", s.repoPath}, args...)
	return s.executor.ExecuteWithInput(ctx, stdin, "git", allArgs...)
}
