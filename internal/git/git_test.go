package git

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/bashhack/gitvain/internal/logger"
)

// setupTestRepo creates a repository with one commit made at a fixed time
// and returns its path.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "-c", "user.name=Test", "-c", "user.email=test@example.com", "-c", "commit.gpgsign=false",
		"commit", "-q", "--allow-empty", "-m", "initial commit")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE=1700000000 +0000",
		"GIT_COMMITTER_DATE=1700000100 +0000",
		"GIT_CONFIG_NOSYSTEM=1",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func TestIsRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	ok, err := IsRepository(ctx, NewExecExecutor(), repo)
	if err != nil || !ok {
		t.Errorf("Expected %s to be a repository, got %v, %v", repo, ok, err)
	}

	ok, err = IsRepository(ctx, NewExecExecutor(), t.TempDir())
	if err != nil || ok {
		t.Errorf("Expected an empty directory not to be a repository, got %v, %v", ok, err)
	}
}

func TestExecExecutorError(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)

	_, err := NewExecExecutor().ExecuteWithContextAndOutput(context.Background(), "git", "-C", repo, "rev-parse", "--verify", "refs/heads/does-not-exist")
	if err == nil {
		t.Fatal("Expected an error for a missing ref")
	}
	if !strings.Contains(err.Error(), "git rev-parse failed") {
		t.Errorf("Expected the subcommand in the message, got %v", err)
	}
	if exitCode(err) != 128 {
		t.Errorf("Expected exit code 128, got %d", exitCode(err))
	}
}

func TestMinerWithGitBinary(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		dryRun bool
		store  func(t *testing.T, repo string) CommitStore
	}{
		"CLI": {
			store: func(t *testing.T, repo string) CommitStore {
				return NewCLIStore(repo, NewExecExecutor())
			},
		},
		"CLIDryRun": {
			dryRun: true,
			store: func(t *testing.T, repo string) CommitStore {
				return NewCLIStore(repo, NewExecExecutor())
			},
		},
		"GoGit": {
			store: func(t *testing.T, repo string) CommitStore {
				s, err := OpenGoGitStore(repo)
				if err != nil {
					t.Fatalf("OpenGoGitStore failed: %v", err)
				}
				return s
			},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			repo := setupTestRepo(t)
			before := runGit(t, repo, "rev-parse", "HEAD")

			// Pick a pattern HEAD does not already have.
			pattern := "0"
			if strings.HasPrefix(before, "0") {
				pattern = "1"
			}

			log := logger.NewWithOutput(false, "", false, &strings.Builder{}, &strings.Builder{})
			m, err := NewMinerWithDeps(MinerConfig{RepoPath: repo, Pattern: pattern, DryRun: tc.dryRun, Workers: 2}, log, tc.store(t, repo))
			if err != nil {
				t.Fatalf("NewMinerWithDeps failed: %v", err)
			}
			if err := m.Run(context.Background()); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if !m.Result().Found {
				t.Fatal("Expected a match for a single nibble")
			}

			after := runGit(t, repo, "rev-parse", "HEAD")
			if tc.dryRun {
				if after != before {
					t.Errorf("Dry run moved HEAD from %s to %s", before, after)
				}
				return
			}

			if after != m.NewID() || !strings.HasPrefix(after, pattern) {
				t.Errorf("Expected HEAD %s starting with %s, got %s", m.NewID(), pattern, after)
			}
			if got := runGit(t, repo, "log", "-1", "--format=%s"); got != "initial commit" {
				t.Errorf("Message changed to %q", got)
			}
			runGit(t, repo, "fsck", "--no-dangling")
		})
	}
}

func TestCLIStoreDefaultPatternWithGitBinary(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	runGit(t, repo, "config", "vain.default", "BEEF")

	got, err := NewCLIStore(repo, NewExecExecutor()).DefaultPattern(context.Background())
	if err != nil {
		t.Fatalf("DefaultPattern failed: %v", err)
	}
	if got != "BEEF" {
		t.Errorf("Expected BEEF, got %q", got)
	}
}
