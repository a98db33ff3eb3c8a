// Package errors provides error handling utilities for the gitvain application.
//
// It defines the sentinel errors every other package wraps, and typed errors
// that carry the context needed to explain a failure to the user.
//
// # Error Kinds
//
//   - Input errors: ErrInvalidPattern (PatternError), ErrInvalidFlag and
//     ErrInvalidConfiguration (ConfigError). Reported before any search starts.
//   - Parse errors: ErrMissingTimestampField and ErrMalformedTimestamp (ParseError).
//   - Verification mismatch: ErrHashMismatch (VerificationError). Blocks the rewrite.
//   - Environment errors: ErrGitOperationFailed (GitError), ErrNotGitRepository,
//     ErrLockAcquisitionFailure and ErrAlreadyRunning (LockError).
//
// Exhausting the search bound is not an error.
//
// # Usage
//
//	if err != nil {
//	    return errors.Wrap(err, "failed to read HEAD")
//	}
//
//	if errors.Is(err, errors.ErrHashMismatch) {
//	    // never touch HEAD
//	}
//
// The package is compatible with the standard library errors package; all
// typed errors implement Unwrap.
package errors
