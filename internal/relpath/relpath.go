// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package relpath implements repository-relative paths.
//
// A Path is always slash-separated, independent of the host platform, and is
// interpreted relative to some enclosing directory (the scan root, a pipeline
// directory, a stage working directory). The empty Path denotes that enclosing
// directory itself.
package relpath

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrBadPath is returned when a filesystem path cannot be expressed as a
// repository-relative path.
var ErrBadPath = errors.New("invalid path encountered")

// PathError describes a path rejected by FromFilesystem.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrBadPath.Error(), e.Path, e.Reason)
}

func (e *PathError) Unwrap() error { return ErrBadPath }

// Path is a slash-separated path relative to an enclosing directory.
type Path string

// Root is the enclosing directory itself.
const Root Path = ""

// New returns the Path for a slash-separated string as written, without
// normalizing it. Normalization happens on Join.
func New(s string) Path {
	return Path(s)
}

// String returns the path, or "." for the root.
func (p Path) String() string {
	if p == Root {
		return "."
	}
	return string(p)
}

// IsRoot reports whether p denotes the enclosing directory.
func (p Path) IsRoot() bool {
	return normalize(string(p)) == ""
}

// Parent returns the directory containing p. A single-component path has the
// root as its parent, and so does the root itself.
func (p Path) Parent() Path {
	s := normalize(string(p))
	i := strings.LastIndex(s, "/")
	if i < 0 {
		return Root
	}
	return Path(s[:i])
}

// Base returns the last element of p.
func (p Path) Base() string {
	s := normalize(string(p))
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Join appends other to p and normalizes the result, resolving "." and ".."
// segments. Leading ".." segments that climb above p's root are kept. A
// leading slash on other is ignored: other is always relative.
func (p Path) Join(other Path) Path {
	rest := strings.TrimLeft(string(other), "/")
	base := normalize(string(p))
	if base == "" {
		return Path(normalize(rest))
	}
	return Path(normalize(base + "/" + rest))
}

// WithExtension replaces the extension of the final element of p with ext.
// The extension is the part of the final element starting at its last dot;
// an element without a dot (or whose only dot is the leading one) gains the
// extension instead. The dot separator is added if ext does not start with one.
func (p Path) WithExtension(ext string) Path {
	s := string(p)
	dir, name := "", s
	if i := strings.LastIndex(s, "/"); i >= 0 {
		dir, name = s[:i+1], s[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return p
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return Path(dir + name)
	}
	return Path(dir + name + "." + ext)
}

// FromFilesystem expresses the filesystem path target relative to the
// filesystem directory root. It fails with ErrBadPath when target lies outside
// root or contains components that are not valid UTF-8.
func FromFilesystem(root, target string) (Path, error) {
	if !utf8.ValidString(target) {
		return "", &PathError{Path: target, Reason: "path is not valid UTF-8"}
	}
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", &PathError{Path: target, Reason: err.Error()}
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", &PathError{Path: target, Reason: fmt.Sprintf("path is outside of %q", root)}
	}
	return Path(normalize(rel)), nil
}

func normalize(s string) string {
	if s == "" {
		return ""
	}
	c := path.Clean(s)
	c = strings.TrimPrefix(c, "/")
	if c == "." {
		return ""
	}
	return c
}
