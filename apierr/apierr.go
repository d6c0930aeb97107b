// Package apierr defines the small set of error kinds the HTTP layer
// discriminates on, per spec.md §7. Per-entry filesystem errors during a
// walk or hash are never surfaced this way — they are absorbed at the
// source and only ever reach a log line.
package apierr

import (
	"errors"
	"fmt"
)

// Kind is one of the four API-visible error classifications.
type Kind int

const (
	KindInvalidPath Kind = iota
	KindNotFound
	KindConflictingSnapshotType
	KindStaleRoot
)

// Error is a typed error carrying a Kind the HTTP layer maps to a status
// code, plus a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// InvalidPath reports a missing path, or one that exists but is not a directory.
func InvalidPath(format string, args ...any) error {
	return &Error{Kind: KindInvalidPath, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports an unknown scan or snapshot identifier.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// ConflictingSnapshotType reports a comparison-only operation invoked on a
// scan snapshot, or vice versa.
func ConflictingSnapshotType(format string, args ...any) error {
	return &Error{Kind: KindConflictingSnapshotType, Msg: fmt.Sprintf(format, args...)}
}

// StaleRoot reports that a stored snapshot's root/target path no longer
// exists at re-scan time.
func StaleRoot(format string, args ...any) error {
	return &Error{Kind: KindStaleRoot, Msg: fmt.Sprintf(format, args...)}
}

// As extracts the Kind of err if it is (or wraps) an *Error.
func As(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
