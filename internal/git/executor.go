package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// CommandExecutor defines an interface for executing commands
type CommandExecutor interface {
	// ExecuteWithContext runs a command and returns its error
	ExecuteWithContext(ctx context.Context, name string, args ...string) error

	// ExecuteWithContextAndOutput runs a command and returns its stdout
	ExecuteWithContextAndOutput(ctx context.Context, name string, args ...string) (string, error)

	// ExecuteWithInput runs a command with stdin and returns its stdout
	ExecuteWithInput(ctx context.Context, stdin []byte, name string, args ...string) (string, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// ExecuteWithContext implements CommandExecutor.ExecuteWithContext
func (e *ExecExecutor) ExecuteWithContext(ctx context.Context, name string, args ...string) error {
	_, err := e.run(ctx, nil, name, args)
	return err
}

// ExecuteWithContextAndOutput implements CommandExecutor.ExecuteWithContextAndOutput
func (e *ExecExecutor) ExecuteWithContextAndOutput(ctx context.Context, name string, args ...string) (string, error) {
	return e.run(ctx, nil, name, args)
}

// ExecuteWithInput implements CommandExecutor.ExecuteWithInput
func (e *ExecExecutor) ExecuteWithInput(ctx context.Context, stdin []byte, name string, args ...string) (string, error) {
	return e.run(ctx, stdin, name, args)
}

func (e *ExecExecutor) run(ctx context.Context, stdin []byte, name string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	if err := cmd.Run(); err != nil {
		// The first non-flag argument is the git subcommand; -C <path> comes first.
		operation := name
		for i := 0; i < len(args); i++ {
			if args[i] == "-C" {
				i++
				continue
			}
			operation = args[i]
			break
		}

		// Keep the *exec.ExitError reachable so callers can inspect the exit code.
		wrappedErr := vainErrors.Errorf("%w: %w", vainErrors.ErrGitOperationFailed, err)
		return "", vainErrors.NewGitError(operation, args, wrappedErr, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
