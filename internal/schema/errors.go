// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is returned when a repository file cannot be read.
	ErrIO = errors.New("I/O operation failed")
	// ErrDecode is returned when a repository file does not match its schema.
	ErrDecode = errors.New("YAML parse error")
	// ErrInvalidArtifactEntry is returned for an artifact mapping that does not
	// have exactly one key.
	ErrInvalidArtifactEntry = errors.New("invalid artifact entry")
)

// FileError ties a read or decode failure to the file it happened in. It
// matches both its Kind and the underlying cause with errors.Is.
type FileError struct {
	Path string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind.Error(), e.Path, e.Err)
}

func (e *FileError) Unwrap() []error { return []error{e.Kind, e.Err} }

// ArtifactEntryError describes a rejected single-key artifact mapping.
type ArtifactEntryError struct {
	Line int
	Keys int
}

func (e *ArtifactEntryError) Error() string {
	return fmt.Sprintf("line %d: %s: expected a single-entry mapping, found %d keys", e.Line, ErrInvalidArtifactEntry.Error(), e.Keys)
}

func (e *ArtifactEntryError) Unwrap() error { return ErrInvalidArtifactEntry }
