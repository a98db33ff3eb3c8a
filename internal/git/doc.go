// Package git provides the repository side of gitvain: reading HEAD,
// verifying object ids and replacing HEAD with a rewritten commit.
//
// # Core Components
//
// - Miner: runs one search against HEAD and writes the winner back
// - CommitStore: interface for reading, verifying and replacing HEAD
// - CLIStore: CommitStore and DefaultsReader backed by the git binary
// - GoGitStore: CommitStore and DefaultsReader backed by go-git
// - CommandExecutor: interface for executing Git commands
//
// # Usage
//
// Basic usage pattern:
//
//	config := git.MinerConfig{
//	    RepoPath: "/path/to/repo",
//	    Pattern:  "c0ffee",
//	    Verbose:  true,
//	}
//
//	miner, err := git.NewMiner(config, logger)
//	if err != nil {
//	    // Handle error
//	}
//
//	if err := miner.Run(ctx); err != nil {
//	    // Handle error
//	}
//
//	miner.PrintSummary()
//
// # Safety
//
// HEAD is only moved after the repository itself has computed the id of the
// rewritten commit and agreed with the search. Both stores move HEAD with a
// compare-and-swap against the id read at the start, so a commit made while
// the search was running is never lost. When HEAD is a branch the branch is
// updated; a detached HEAD stays detached.
//
// # Error Handling
//
// Command failures are reported as *errors.GitError wrapping
// errors.ErrGitOperationFailed and, for the git binary, the *exec.ExitError.
// A disagreement about a hash is an *errors.VerificationError wrapping
// errors.ErrHashMismatch.
package git
