package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	logFile := filepath.Join(tempDir, "test.log")

	logger := New(false, logFile, true)
	if logger == nil {
		t.Fatal("Expected non-nil logger with debug disabled")
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	if _, err := os.Stat(logFile); err == nil {
		t.Error("Expected no log file to be created when debug is disabled")
	}

	stdout := &bytes.Buffer{}
	logger = NewWithOutput(true, logFile, true, stdout, &bytes.Buffer{})

	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("Expected log file to be created when debug is enabled: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "gitvain debug logging started") {
		t.Error("Expected initial message to be logged")
	}
}

func TestLogging(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	logFile := filepath.Join(tempDir, "test.log")

	logger := NewWithOutput(true, logFile, true, &bytes.Buffer{}, &bytes.Buffer{})

	logger.Info("Test info message")
	logger.Warning("Test warning message")
	logger.Error("Test error message")

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)
	for _, want := range []string{"Test info message", "Test warning message", "Test error message"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("Expected %q to be logged", want)
		}
	}
}

func TestUserMessages(t *testing.T) {
	tempDir := t.TempDir()

	logFile := filepath.Join(tempDir, "test.log")

	stdoutBuf := &bytes.Buffer{}
	stderrBuf := &bytes.Buffer{}

	logger := NewWithOutput(true, logFile, true, stdoutBuf, stderrBuf)
	defer func() {
		if err := logger.Close(); err != nil {
			t.Logf("Failed to close logger: %v", err)
		}
	}()

	t.Run("InfoToUser", func(t *testing.T) {
		stdoutBuf.Reset()
		logger.InfoToUser("Test info to user: %s", "message")
		output := stdoutBuf.String()

		if !strings.Contains(output, "ℹ️") || !strings.Contains(output, "Test info to user: message") {
			t.Errorf("InfoToUser did not produce expected output, got: %s", output)
		}

		content, err := os.ReadFile(logFile)
		if err != nil {
			t.Fatalf("Failed to read log file: %v", err)
		}

		if !strings.Contains(string(content), "Test info to user: message") {
			t.Error("InfoToUser message was not written to log file")
		}
	})

	t.Run("Success", func(t *testing.T) {
		stdoutBuf.Reset()
		logger.Success("Success message: %s", "completed")
		output := stdoutBuf.String()

		if !strings.Contains(output, "✅") || !strings.Contains(output, "Success message: completed") {
			t.Errorf("Success did not produce expected output, got: %s", output)
		}
	})

	t.Run("Error", func(t *testing.T) {
		stderrBuf.Reset()
		logger.Error("Broken: %s", "badly")

		if !strings.Contains(stderrBuf.String(), "❌ Broken: badly") {
			t.Errorf("Error did not reach stderr, got: %s", stderrBuf.String())
		}
	})

	t.Run("StatusMessage", func(t *testing.T) {
		stdoutBuf.Reset()
		logger.StatusMessage("Status: %s", "in progress")
		output := stdoutBuf.String()

		if !strings.Contains(output, "Status: in progress") {
			t.Errorf("StatusMessage did not produce expected output, got: %s", output)
		}

		content, err := os.ReadFile(logFile)
		if err != nil {
			t.Fatalf("Failed to read log file: %v", err)
		}

		if strings.Contains(string(content), "Status: in progress") {
			t.Error("StatusMessage should not write to log file")
		}
	})
}

func TestProgress(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		verbose  bool
		expected string
	}{
		"VerboseRewritesLineThenTerminatesIt": {
			verbose:  true,
			expected: "\rkhash: 1\rkhash: 2\ndone\n",
		},
		"QuietSuppressesProgress": {
			verbose:  false,
			expected: "done\n",
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout := &bytes.Buffer{}
			logger := NewWithOutput(false, "", test.verbose, stdout, &bytes.Buffer{})

			logger.Progress("khash: %d", 1)
			logger.Progress("khash: %d", 2)
			logger.StatusMessage("done")

			if got := stdout.String(); got != test.expected {
				t.Errorf("Expected output %q, got %q", test.expected, got)
			}
		})
	}
}

func TestCloseTerminatesProgress(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	logger := NewWithOutput(false, "", true, stdout, &bytes.Buffer{})

	logger.Progress("khash: %d", 7)
	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	if got := stdout.String(); got != "\rkhash: 7\n" {
		t.Errorf("Expected progress line to be terminated on close, got %q", got)
	}
}
