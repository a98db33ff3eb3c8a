// Package logger provides logging facilities for the gitvain application.
//
// It defines the Logger interface used by every component and DefaultLogger,
// the standard implementation that writes structured debug logs (log/slog text
// handler) to a file and emoji-prefixed messages to the terminal.
//
// # Message Types
//
//   - Info, Warning, Error: debug-side messages written to the log file.
//     Warnings are echoed in verbose mode; errors always go to stderr.
//   - InfoToUser, WarningToUser, Success: shown to the user and logged.
//   - StatusMessage: shown to the user, never logged.
//   - Progress: a transient line rewritten in place with a carriage return,
//     used for the hash-rate display during a search. The next message of
//     any other kind terminates the line first.
//
// # Usage
//
//	log := logger.New(debug, "/path/to/gitvain.log", verbose)
//	defer log.Close()
//
//	log.Progress("khash: %d", n)
//	log.Success("Found %s", hash)
//
// # Thread Safety
//
// DefaultLogger is safe for concurrent use by multiple goroutines.
package logger
