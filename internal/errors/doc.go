// Package errors provides error handling conventions for the vaultconfig CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, vcerrors.ErrMissingName) {
//	    // handle missing name case
//	}
//
// Domain error kinds (not-encrypted, invalid password, unsupported format,
// config not found, and so on) live next to the code that produces them:
// see the crypt, format, obscure, schema, and vault packages.
//
// # Exit Codes
//
// The package defines standard exit codes for CLI applications:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, wrong password, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion
// for CLI applications. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	err := vcerrors.NewUserError(vault.ErrNotFound, "Run: vaultconfig list")
//	var exitErr *vcerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
