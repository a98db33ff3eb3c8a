package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/bashhack/gitvain/internal/config"
	vainErrors "github.com/bashhack/gitvain/internal/errors"
	"github.com/bashhack/gitvain/internal/git"
	"github.com/bashhack/gitvain/internal/lock"
	"github.com/bashhack/gitvain/internal/logger"
)

// Miner performs the search and rewrite
type Miner interface {
	PrintSummary()
	Run(ctx context.Context) error
}

// Locker manages file locking
type Locker interface {
	Acquire() error
	Release() error
}

// AppOptions contains app configuration and dependencies.
// Nil optional dependencies are replaced with defaults by NewApp or
// Initialize.
type AppOptions struct {
	// Config holds the application configuration settings (required).
	Config *config.Config

	// Logger provides logging functionality (optional).
	Logger logger.Logger

	// Locker manages repository locking (optional).
	Locker Locker

	// Store gives access to HEAD (optional, chosen from Config.Backend).
	Store git.CommitStore

	// Defaults supplies the pattern when none is given (optional, the
	// Store when it implements git.DefaultsReader).
	Defaults git.DefaultsReader

	// Miner runs the search (optional, built from Config and Store).
	Miner Miner

	// Stdout is the writer for standard output (optional, defaults to os.Stdout).
	Stdout io.Writer

	// Stderr is the writer for error output (optional, defaults to os.Stderr).
	Stderr io.Writer

	// Exit is the function to terminate the application (optional, defaults to os.Exit).
	Exit func(code int)

	// ExecLookPath is used to find executables in PATH (optional, defaults to exec.LookPath).
	ExecLookPath func(file string) (string, error)

	// IsRepository checks if a path is a valid Git repository (optional).
	IsRepository func(ctx context.Context, path string) (bool, error)
}

// App is the main gitvain application.
// It wires configuration, logging, locking and the miner together and
// manages their lifecycle.
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	Locker   Locker
	Store    git.CommitStore
	Defaults git.DefaultsReader
	Miner    Miner

	Stdout io.Writer
	Stderr io.Writer

	exit         func(code int)
	execLookPath func(file string) (string, error)
	isRepository func(ctx context.Context, path string) (bool, error)

	// ran is set once the miner has been started, so a summary is only
	// printed for an actual search.
	ran bool

	closeOnce sync.Once
	closeErr  error
}

// NewDefaultApp creates an App with standard dependencies.
// It initializes a new Config with the provided version information
// and loads environment variables.
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo
	cfg.LoadFromEnvironment()

	return NewApp(AppOptions{
		Config:       cfg,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
	})
}

// NewApp creates an App with custom dependencies specified in opts.
// It panics if opts.Config is nil.
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Locker:       opts.Locker,
		Store:        opts.Store,
		Defaults:     opts.Defaults,
		Miner:        opts.Miner,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		exit:         opts.Exit,
		execLookPath: opts.ExecLookPath,
		isRepository: opts.IsRepository,
	}

	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}
	if app.isRepository == nil {
		executor := git.NewExecExecutor()
		app.isRepository = func(ctx context.Context, path string) (bool, error) {
			return git.IsRepository(ctx, executor, path)
		}
	}

	return app
}

// Initialize finalizes the configuration and sets up the logger and lock.
// The repository itself is not touched until Run.
func (a *App) Initialize() error {
	if err := a.Config.Finalize(); err != nil {
		if vainErrors.Is(err, vainErrors.ErrInvalidConfiguration) {
			return err
		}
		return vainErrors.Wrap(vainErrors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.New(a.Config.Debug, a.Config.LogFile, a.Config.Verbose)
	}

	if a.Locker == nil {
		locker, err := lock.New(a.Config.RepoPath)
		if err != nil {
			return vainErrors.Wrap(err, "failed to initialize lock")
		}
		a.Locker = locker
	}

	return nil
}

// Run executes the application with the given context
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(); err != nil {
		return err
	}

	if a.Config.Version {
		a.ShowVersion()
		return nil
	}
	if a.Config.ShowHelp {
		// Usage was already printed while parsing flags.
		return nil
	}

	if err := a.openStore(ctx); err != nil {
		return err
	}

	if err := a.Locker.Acquire(); err != nil {
		if vainErrors.Is(err, vainErrors.ErrAlreadyRunning) {
			return err
		}
		return vainErrors.Join(vainErrors.ErrLockAcquisitionFailure, err)
	}

	pattern, err := a.resolvePattern(ctx)
	if err != nil {
		return err
	}

	if a.Miner == nil {
		miner, err := git.NewMinerWithDeps(git.MinerConfig{
			RepoPath:         a.Config.RepoPath,
			Pattern:          pattern,
			DryRun:           a.Config.DryRun,
			Workers:          a.Config.Workers,
			Bound:            a.Config.Bound,
			ProgressInterval: a.Config.ProgressInterval(),
			Verbose:          a.Config.Verbose,
		}, a.Logger, a.Store)
		if err != nil {
			return fmt.Errorf("failed to create miner: %w", err)
		}
		a.Miner = miner
	}

	a.ran = true
	return a.Miner.Run(ctx)
}

// openStore verifies the repository and selects the backend.
func (a *App) openStore(ctx context.Context) error {
	if a.Store == nil {
		switch a.Config.Backend {
		case config.BackendGoGit:
			store, err := git.OpenGoGitStore(a.Config.RepoPath)
			if err != nil {
				return err
			}
			a.Store = store
		default:
			if err := a.checkRequiredCommands(); err != nil {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Error: %v. Please install it or use -backend go-git.\n", err)
				return err
			}

			isRepo, err := a.isRepository(ctx, a.Config.RepoPath)
			if err != nil {
				a.Logger.Warning("Failed to check if path is a git repository: %v", err)
				return vainErrors.Join(vainErrors.ErrGitOperationFailed, err)
			}
			if !isRepo {
				return vainErrors.Wrapf(vainErrors.ErrNotGitRepository, "%s", a.Config.RepoPath)
			}
			a.Store = git.NewCLIStore(a.Config.RepoPath, git.NewExecExecutor())
		}
		a.Logger.Info("Using %s backend for %s", a.Config.Backend, a.Config.RepoPath)
	}

	if a.Defaults == nil {
		if d, ok := a.Store.(git.DefaultsReader); ok {
			a.Defaults = d
		}
	}
	return nil
}

// resolvePattern returns the pattern from the command line, falling back to
// the repository's vain.default setting.
func (a *App) resolvePattern(ctx context.Context) (string, error) {
	if a.Config.Pattern != "" {
		return a.Config.Pattern, nil
	}

	if a.Defaults != nil {
		pattern, err := a.Defaults.DefaultPattern(ctx)
		if err != nil {
			return "", err
		}
		if pattern != "" {
			a.Logger.Info("Using pattern %q from vain.default", pattern)
			a.Config.Pattern = pattern
			return pattern, nil
		}
	}

	return "", vainErrors.NewConfigError("pattern", nil,
		vainErrors.Wrap(vainErrors.ErrInvalidPattern, "no pattern given and vain.default is not set"))
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "gitvain %s (%s) built on %s\n",
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// PrintSummary prints the miner's summary if a search was started.
func (a *App) PrintSummary() {
	if a.ran && a.Miner != nil {
		a.Miner.PrintSummary()
	}
}

// checkRequiredCommands verifies git is available in PATH
func (a *App) checkRequiredCommands() error {
	if _, err := a.execLookPath("git"); err != nil {
		return fmt.Errorf("git is not found in PATH")
	}
	return nil
}

// Close releases resources held by the App. It is safe to call more than
// once.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.close()
	})
	return a.closeErr
}

func (a *App) close() error {
	var errs []error

	if a.Locker != nil {
		if err := a.Locker.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release lock during cleanup: %v", err)
			} else {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to release lock during cleanup: %v\n", err)
			}
			errs = append(errs, err)
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
			errs = append(errs, err)
		}
	}

	return vainErrors.Join(errs...)
}

// CleanupOnSignal releases the lock and shows a summary when the search does
// not stop in time after an interrupt.
func (a *App) CleanupOnSignal() {
	a.PrintSummary()
	if err := a.Close(); err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", err)
	}
}
