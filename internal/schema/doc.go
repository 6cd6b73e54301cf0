// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package schema provides the Go representation of the files that describe a
// DVC repository: `.dvc` single-artifact files, `dvc.yaml` pipeline manifests
// and `dvc.lock` lock files.
//
// # Core Concepts
//
//   - Artifact: a declared dependency (Dep) or output (Out), identified by a
//     path relative to the working directory of the record that declares it.
//
//   - DvcFile: a `.dvc` file tracking one or more outputs, optionally with its
//     own working directory.
//
//   - Pipeline: a `dvc.yaml` manifest mapping stage names to StageEntry values.
//     An entry is either a plain Stage or a repeated one, which is a `foreach`
//     list of labels plus a templated Stage in `do`.
//
//   - LockFile: the resolved state of a pipeline's stages at a point in time.
//
// Artifact lists inside pipeline stages are written in two shapes: a bare
// path string, or a mapping with exactly one key, the path, whose value holds
// the remaining attributes. Decoding probes the YAML node kind to tell them
// apart and rejects mappings without exactly one key with
// ErrInvalidArtifactEntry.
package schema
