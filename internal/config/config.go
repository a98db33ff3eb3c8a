package config

import (
	"crypto/sha256"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
	"github.com/bashhack/gitvain/internal/search"
)

const (
	// BackendCLI drives the git binary.
	BackendCLI = "cli"

	// BackendGoGit reads and writes the repository with go-git.
	BackendGoGit = "go-git"

	// DefaultProgressSeconds is how often the hash count is refreshed.
	DefaultProgressSeconds = 1.0
)

// Config holds all gitvain application settings.
// Values come from defaults, then environment variables, then the command
// line, in that order of precedence.
type Config struct {
	// Pattern is the hex prefix to search for. When empty after parsing,
	// the repository's vain.default setting is used.
	Pattern string

	// DryRun searches and verifies without moving HEAD.
	DryRun bool

	// RepoPath is the path to the Git repository.
	// If empty, the current working directory is used.
	RepoPath string

	// Workers is the number of hashing goroutines; 0 picks one per
	// performance core.
	Workers int

	// Bound limits both timestamp offsets to [-Bound, Bound] seconds.
	Bound int64

	// Backend selects how the repository is accessed: "cli" or "go-git".
	Backend string

	// ProgressSeconds is the progress refresh period; 0 disables it.
	ProgressSeconds float64

	// Verbose shows the progress line and informational messages.
	Verbose bool

	// Debug enables detailed logging to LogFile.
	Debug bool

	// LogFile specifies where to write debug logs.
	// If empty, logs are written to a default location based on repository path.
	LogFile string

	// Version indicates whether to show version information and exit.
	Version bool

	// ShowHelp indicates whether to display the help message and exit.
	ShowHelp bool

	// VersionInfo contains version, commit, and build date information.
	// This is typically injected at build time.
	VersionInfo VersionInfo

	// ParsedQuiet tracks the state of the -quiet flag.
	// Used during flag parsing to handle flag inversion.
	ParsedQuiet *bool
}

// VersionInfo contains build-time version metadata.
type VersionInfo struct {
	// Version is the semantic version number (e.g., "v1.2.3").
	Version string

	// Commit is the Git commit hash from which the binary was built.
	Commit string

	// Date is the build timestamp in human-readable format.
	Date string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Bound:           search.DefaultBound,
		Backend:         BackendCLI,
		ProgressSeconds: DefaultProgressSeconds,
		Verbose:         true,

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// LoadFromEnvironment updates config from environment variables
func (c *Config) LoadFromEnvironment() {
	c.RepoPath = getEnvString("VAIN_REPO_PATH", c.RepoPath)
	c.Workers = getEnvInt("VAIN_WORKERS", c.Workers)
	c.Bound = int64(getEnvInt("VAIN_BOUND", int(c.Bound)))
	c.Backend = getEnvString("VAIN_BACKEND", c.Backend)
	c.ProgressSeconds = getEnvFloat("VAIN_PROGRESS_SECONDS", c.ProgressSeconds)
	c.Verbose = getEnvBool("VAIN_VERBOSE", c.Verbose)
	c.DryRun = getEnvBool("VAIN_DRY_RUN", c.DryRun)
	c.Debug = getEnvBool("VAIN_DEBUG", c.Debug)
	c.LogFile = getEnvString("VAIN_LOG_FILE", c.LogFile)
}

// SetupFlags sets up command-line flags to override config values
func (c *Config) SetupFlags(fs *flag.FlagSet) {
	var quiet bool

	fs.BoolVar(&c.DryRun, "dry-run", c.DryRun, "Search and verify, but leave HEAD unchanged")
	fs.StringVar(&c.RepoPath, "repo", c.RepoPath, "Path to repository (default: current directory)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Hashing goroutines (0 = one per performance core)")
	fs.Int64Var(&c.Bound, "bound", c.Bound, "Largest timestamp shift in seconds, applied to author and committer")
	fs.StringVar(&c.Backend, "backend", c.Backend, "Repository access: cli (git binary) or go-git")
	fs.Float64Var(&c.ProgressSeconds, "progress", c.ProgressSeconds, "Seconds between progress updates (0 = off)")
	fs.BoolVar(&quiet, "quiet", !c.Verbose, "Hide progress and informational messages")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Path to log file (default: ~/.local/share/gitvain/logs/gitvain-{repo-hash}.log)")
	fs.BoolVar(&c.Version, "version", c.Version, "Print version information and exit")
	fs.BoolVar(&c.ShowHelp, "help", c.ShowHelp, "Display help message and exit")

	c.ParsedQuiet = &quiet
}

// PrintUsage prints a formatted help message with examples and grouped flags
func (c *Config) PrintUsage(fs *flag.FlagSet, w io.Writer) {
	programName := filepath.Base(os.Args[0])

	_, _ = fmt.Fprintf(w, "gitvain: vanity commit ids by timestamp search\n\n")
	_, _ = fmt.Fprintf(w, "Usage: %s [options] [pattern] [--dry-run]\n\n", programName)
	_, _ = fmt.Fprintf(w, "gitvain shifts the author and committer times of HEAD by a few seconds until\n")
	_, _ = fmt.Fprintf(w, "the commit id starts with the given hex pattern, then moves HEAD to it.\n")
	_, _ = fmt.Fprintf(w, "Without a pattern the value of 'git config vain.default' is used.\n\n")

	_, _ = fmt.Fprintf(w, "Examples:\n")
	_, _ = fmt.Fprintf(w, "  %s c0ffee                  # Rewrite HEAD to c0ffee...\n", programName)
	_, _ = fmt.Fprintf(w, "  %s --dry-run beef          # Show what would happen\n", programName)
	_, _ = fmt.Fprintf(w, "  %s                         # Use vain.default\n", programName)
	_, _ = fmt.Fprintf(w, "  %s -backend go-git 000     # Without the git binary\n\n", programName)

	_, _ = fmt.Fprintf(w, "Search Options:\n")
	printFlagIfExists(w, fs, "dry-run")
	printFlagIfExists(w, fs, "repo")
	printFlagIfExists(w, fs, "workers")
	printFlagIfExists(w, fs, "bound")
	printFlagIfExists(w, fs, "backend")
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "Output Options:\n")
	printFlagIfExists(w, fs, "progress")
	printFlagIfExists(w, fs, "quiet")
	printFlagIfExists(w, fs, "debug")
	printFlagIfExists(w, fs, "log-file")
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "Information:\n")
	printFlagIfExists(w, fs, "version")
	printFlagIfExists(w, fs, "help")
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "Environment variables:\n")
	_, _ = fmt.Fprintf(w, "  VAIN_REPO_PATH            Path to repository\n")
	_, _ = fmt.Fprintf(w, "  VAIN_WORKERS              Hashing goroutines\n")
	_, _ = fmt.Fprintf(w, "  VAIN_BOUND                Largest timestamp shift in seconds\n")
	_, _ = fmt.Fprintf(w, "  VAIN_BACKEND              cli or go-git\n")
	_, _ = fmt.Fprintf(w, "  VAIN_PROGRESS_SECONDS     Seconds between progress updates\n")
	_, _ = fmt.Fprintf(w, "  VAIN_VERBOSE              Whether to show informational messages (true/false)\n")
	_, _ = fmt.Fprintf(w, "  VAIN_DRY_RUN              Leave HEAD unchanged (true/false)\n")
	_, _ = fmt.Fprintf(w, "  VAIN_DEBUG                Enable debug logging (true/false)\n")
	_, _ = fmt.Fprintf(w, "  VAIN_LOG_FILE             Path to log file\n")
}

// printFlagIfExists prints a flag's usage if it exists in the FlagSet
func printFlagIfExists(w io.Writer, fs *flag.FlagSet, name string) {
	f := fs.Lookup(name)
	if f == nil {
		return
	}

	// Format: -flag (default: value): description
	defaultValue := f.DefValue
	if defaultValue != "" {
		defaultValue = fmt.Sprintf(" (default: %s)", defaultValue)
	}

	_, _ = fmt.Fprintf(w, "  -%s%s: %s\n", f.Name, defaultValue, f.Usage)
}

// ParseFlags parses os.Args and updates the config
func (c *Config) ParseFlags() error {
	return c.ParseArgs(os.Args[1:], os.Stdout)
}

// ParseArgs parses args and updates the config. Flags may appear before or
// after the single optional pattern argument, so both "c0ffee --dry-run" and
// "--dry-run c0ffee" work. Usage is written to w for -help and on errors.
func (c *Config) ParseArgs(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("gitvain", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	c.SetupFlags(fs)

	fail := func(err error) error {
		_, _ = fmt.Fprintf(w, "Error: %s\n\n", err)
		c.PrintUsage(fs, w)
		return vainErrors.NewConfigError("flags", nil, vainErrors.Wrap(vainErrors.ErrInvalidFlag, err.Error()))
	}

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			if err == flag.ErrHelp {
				c.ShowHelp = true
				break
			}
			return fail(err)
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	if c.ShowHelp {
		c.PrintUsage(fs, w)
		return nil
	}

	switch len(positional) {
	case 0:
	case 1:
		c.Pattern = positional[0]
	default:
		return fail(fmt.Errorf("too many arguments: %s", strings.Join(positional, " ")))
	}

	// Apply inverted flags only after successful parsing
	if c.ParsedQuiet != nil && *c.ParsedQuiet {
		c.Verbose = false
	}
	return nil
}

// ProgressInterval returns ProgressSeconds as a duration.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.ProgressSeconds * float64(time.Second))
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if c.Workers < 0 {
		return vainErrors.NewConfigError("workers", c.Workers,
			vainErrors.Wrap(vainErrors.ErrInvalidConfiguration, "must not be negative"))
	}
	if c.Bound <= 0 {
		return vainErrors.NewConfigError("bound", c.Bound,
			vainErrors.Wrap(vainErrors.ErrInvalidConfiguration, "must be greater than 0"))
	}
	if c.Bound > search.MaxBound {
		return vainErrors.NewConfigError("bound", c.Bound,
			vainErrors.Wrapf(vainErrors.ErrInvalidConfiguration, "must not exceed %d", int64(search.MaxBound)))
	}
	if c.ProgressSeconds < 0 {
		return vainErrors.NewConfigError("progress", c.ProgressSeconds,
			vainErrors.Wrap(vainErrors.ErrInvalidConfiguration, "must not be negative"))
	}

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend != BackendCLI && c.Backend != BackendGoGit {
		return vainErrors.NewConfigError("backend", c.Backend,
			vainErrors.Wrapf(vainErrors.ErrInvalidConfiguration, "must be %q or %q", BackendCLI, BackendGoGit))
	}

	if c.RepoPath == "" {
		var err error
		c.RepoPath, err = os.Getwd()
		if err != nil {
			return vainErrors.NewConfigError("repoPath", "", vainErrors.Wrap(err, "failed to get current directory"))
		}
	}

	absRepoPath, err := filepath.Abs(c.RepoPath)
	if err != nil {
		return vainErrors.NewConfigError("repoPath", c.RepoPath, vainErrors.Wrap(err, "failed to resolve absolute path"))
	}
	c.RepoPath = absRepoPath

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				logDir = os.TempDir()
			}
		}

		repoHash := fmt.Sprintf("%x", sha256OfString(c.RepoPath)[:8])
		c.LogFile = filepath.Join(logDir, "gitvain", "logs", fmt.Sprintf("gitvain-%s.log", repoHash))
	}

	if c.Debug {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o700); err != nil {
			return vainErrors.NewConfigError("logFile", c.LogFile, vainErrors.Wrap(err, "cannot create log directory"))
		}
	}

	return nil
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as int or a default value
func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvFloat returns an environment variable as float64 or a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(valueStr) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}
