package models

import (
	"fmt"
	"io/fs"
	"os"
)

// ErrKind classifies a recovered per-file failure.
type ErrKind string

const (
	ErrKindIO            ErrKind = "io"
	ErrKindPermission    ErrKind = "permission"
	ErrKindBrokenSymlink ErrKind = "broken-symlink"
	ErrKindUnsupported   ErrKind = "unsupported"
	ErrKindHash          ErrKind = "hash"
)

// Op names the operation that failed.
type Op string

const (
	OpReadDir Op = "readdir"
	OpStat    Op = "stat"
	OpHash    Op = "hash"
)

// ScanError records one recovered failure. The session collects these
// in arrival order; a non-empty list does not prevent the session from
// completing.
type ScanError struct {
	Path    string  `json:"path"`
	Op      Op      `json:"op"`
	Kind    ErrKind `json:"kind"`
	Message string  `json:"message"`
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s %s: %s: %s", e.Op, e.Path, e.Kind, e.Message)
}

// ClassifyError wraps a raw filesystem error into a ScanError,
// deriving the kind from the underlying cause.
func ClassifyError(op Op, path string, err error) ScanError {
	kind := ErrKindIO
	switch {
	case os.IsPermission(err):
		kind = ErrKindPermission
	case op == OpHash:
		kind = ErrKindHash
	}
	return ScanError{Path: path, Op: op, Kind: kind, Message: err.Error()}
}

// BrokenSymlinkError builds the error entry for a symlink whose target
// cannot be resolved.
func BrokenSymlinkError(path string, err error) ScanError {
	return ScanError{Path: path, Op: OpStat, Kind: ErrKindBrokenSymlink, Message: err.Error()}
}

// UnsupportedPathError builds the error entry for a non-regular entry
// (device node, socket, FIFO) that is skipped with a notice.
func UnsupportedPathError(path string, mode fs.FileMode) ScanError {
	return ScanError{
		Path:    path,
		Op:      OpStat,
		Kind:    ErrKindUnsupported,
		Message: fmt.Sprintf("unsupported file type %v", mode.Type()),
	}
}
