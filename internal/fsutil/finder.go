// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
)

// VisitFunc is called for every non-directory entry found by
// WalkBreadthFirst. path is the root joined with the entry's location.
type VisitFunc func(path string, d fs.DirEntry) error

// WalkBreadthFirst visits the tree rooted at rootPath one directory level at a
// time. Within a directory, entries are visited in the order os.ReadDir
// returns them. Subdirectories are queued and read after their siblings'
// files. Symbolic links are not followed into directories; they are handed to
// fn like files.
//
// The first error, from reading a directory or returned by fn, stops the walk
// and is returned as is.
func WalkBreadthFirst(rootPath string, fn VisitFunc) error {
	queue := []string{rootPath}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				queue = append(queue, path)
				continue
			}
			if err := fn(path, entry); err != nil {
				return err
			}
		}
	}

	return nil
}
