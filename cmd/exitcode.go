package cmd

import (
	"errors"

	"srcmerge/pkg/merge"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 1 // bad flags, arguments or config file
	ExitInvalidRoot = 2
	ExitUnreadable  = 3
	ExitOutput      = 4
)

// usageError wraps flag and positional argument errors reported by cobra.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var ue *usageError
	return errors.As(err, &ue)
}

func exitCode(err error) int {
	var (
		rootErr   *merge.InvalidRootError
		readErr   *merge.UnreadableFileError
		outputErr *merge.OutputWriteError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &rootErr):
		return ExitInvalidRoot
	case errors.As(err, &readErr):
		return ExitUnreadable
	case errors.As(err, &outputErr):
		return ExitOutput
	default:
		return ExitUsage
	}
}
