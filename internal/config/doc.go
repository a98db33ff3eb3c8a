// Package config provides configuration management for gitvain.
//
// Settings are resolved in three layers: defaults from New, environment
// variables (VAIN_*) via LoadFromEnvironment, and command-line flags and the
// optional pattern argument via ParseFlags. Finalize then validates the result
// and fills in derived values such as the absolute repository path and the
// default log file location.
//
// # Usage
//
//	cfg := config.New()
//	cfg.LoadFromEnvironment()
//	if err := cfg.ParseFlags(); err != nil {
//	    // Handle error
//	}
//	if err := cfg.Finalize(); err != nil {
//	    // Handle error
//	}
//
// Validation failures are returned as *errors.ConfigError wrapping
// errors.ErrInvalidConfiguration; bad command lines wrap errors.ErrInvalidFlag.
package config
