package merge

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is returned for an exclusion entry that is not a valid
// directory name glob.
var ErrInvalidPattern = errors.New("invalid exclude pattern")

// InvalidRootError reports a scan root that is missing or not a directory.
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid source directory %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid source directory %s: not a directory", e.Path)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

// UnreadableFileError reports a candidate file, or a directory on the way to
// one, whose content could not be read or decoded.
type UnreadableFileError struct {
	Path   string
	Reason string
	Err    error
}

func (e *UnreadableFileError) Error() string {
	msg := "cannot read " + e.Path
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnreadableFileError) Unwrap() error { return e.Err }

// OutputWriteError reports a failure to create or replace the merged file.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("cannot write output %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }
