//go:build integration
// +build integration

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func skipUnlessEnabled(t *testing.T) {
	t.Helper()
	if os.Getenv("VAIN_INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test; set VAIN_INTEGRATION_TESTS=1 to run")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// setupTestRepo creates a repository with one commit at a fixed date.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runGit(t, dir, "init", "-q", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(dir, "initial.txt"), []byte("Initial content\n"), 0o644); err != nil {
		t.Fatalf("Failed to write initial file: %v", err)
	}
	runGit(t, dir, "add", "initial.txt")
	runGit(t, dir, "commit", "-q", "-m", "Initial commit")

	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE=1700000000 +0000",
		"GIT_COMMITTER_DATE=1700000000 +0000",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// buildGitvain compiles the binary into a temporary directory.
func buildGitvain(t *testing.T) string {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "gitvain")
	cmd := exec.Command("go", "build", "-o", bin, "../../cmd/gitvain")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build gitvain: %v\n%s", err, out)
	}
	return bin
}
