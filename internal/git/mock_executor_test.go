package git

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"testing"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// MockCommandExecutor is a simple mock of the CommandExecutor interface
// that doesn't actually execute anything but just records calls.
type MockCommandExecutor struct {
	mu       sync.Mutex
	Commands [][]string
	Inputs   [][]byte

	// Responses maps a git subcommand to the output it returns.
	Responses map[string]string

	// Errors maps a git subcommand to the error it returns.
	Errors map[string]error
}

// NewMockCommandExecutor creates a new mock executor
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

func (m *MockCommandExecutor) record(stdin []byte, name string, args []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, append([]string{name}, args...))
	m.Inputs = append(m.Inputs, stdin)

	key := subcommand(args)
	if err, ok := m.Errors[key]; ok {
		return "", err
	}
	return m.Responses[key], nil
}

// ExecuteWithContext implements the CommandExecutor interface
func (m *MockCommandExecutor) ExecuteWithContext(_ context.Context, name string, args ...string) error {
	_, err := m.record(nil, name, args)
	return err
}

// ExecuteWithContextAndOutput implements the CommandExecutor interface
func (m *MockCommandExecutor) ExecuteWithContextAndOutput(_ context.Context, name string, args ...string) (string, error) {
	return m.record(nil, name, args)
}

// ExecuteWithInput implements the CommandExecutor interface
func (m *MockCommandExecutor) ExecuteWithInput(_ context.Context, stdin []byte, name string, args ...string) (string, error) {
	return m.record(stdin, name, args)
}

// Ran reports whether any recorded command contains all of parts in order.
func (m *MockCommandExecutor) Ran(parts ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := strings.Join(parts, " ")
	for _, cmd := range m.Commands {
		if strings.Contains(strings.Join(cmd, " "), want) {
			return true
		}
	}
	return false
}

// subcommand skips "-C <path>" and returns the git subcommand, plus "-w"
// for a writing hash-object so tests can answer it separately.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-C" {
			i++
			continue
		}
		if args[i] == "hash-object" {
			for _, a := range args[i:] {
				if a == "-w" {
					return "hash-object -w"
				}
			}
		}
		return args[i]
	}
	return ""
}

// exitError returns a real *exec.ExitError with the given status, wrapped the
// way ExecExecutor wraps failures.
func exitError(t *testing.T, code int) error {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	runErr := exec.Command(sh, "-c", "exit "+strconv.Itoa(code)).Run()
	if runErr == nil {
		t.Fatalf("Expected exit status %d", code)
	}
	return vainErrors.NewGitError("config", nil,
		vainErrors.Errorf("%w: %w", vainErrors.ErrGitOperationFailed, runErr), "")
}
