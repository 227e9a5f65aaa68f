package model

import "errors"

var (
	// ErrInvalidInput indicates a malformed id or ordinal list.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange indicates an ordinal outside 1..N of the current result list.
	ErrOutOfRange = errors.New("ordinal out of range")

	// ErrNotFound indicates a bookmark id that does not exist in the store.
	ErrNotFound = errors.New("bookmark not found")

	// ErrDuplicate indicates a uniqueness violation, e.g. an already stored URL.
	ErrDuplicate = errors.New("bookmark already exists")

	// ErrExternalProcess indicates an editor or shell command that failed to
	// launch or exited with a non-zero status.
	ErrExternalProcess = errors.New("external process failed")

	// ErrEditParse indicates edited template content that cannot be turned
	// back into a bookmark.
	ErrEditParse = errors.New("cannot parse edited bookmark")
)
