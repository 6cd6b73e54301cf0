// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package dvctree scans a directory tree for DVC files and answers questions
// about the result.
//
// Scanning happens in two steps. ScanSources walks the tree breadth-first and
// decodes every recognized file: `dvc.yaml` manifests, `dvc.lock` lock files
// and `*.dvc` single-artifact files. Assemble then expresses every path
// relative to the scan root and attaches each manifest's lock file, found by
// replacing the manifest's extension with `lock`.
//
// A scan is all-or-nothing. The first file that cannot be read or decoded
// fails the whole scan. A manifest without a lock file is not an error.
//
// The Tree is read-only once built. Outputs resolves every declared output
// to a path relative to the scan root, expanding `foreach` stages on the way.
package dvctree
