// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dvctree

import (
	"context"
	"fmt"

	"github.com/vk/dvctree/internal/ctxlog"
	"github.com/vk/dvctree/internal/relpath"
	"github.com/vk/dvctree/internal/schema"
)

// DvcFile is a `.dvc` file found in the tree.
type DvcFile struct {
	// Path is relative to the scan root.
	Path  relpath.Path
	Stage *schema.DvcFile
}

// Wdir returns the working directory of the file's outputs relative to the
// scan root: the directory holding the file, joined with the file's own
// `wdir` when it declares one.
func (f DvcFile) Wdir() relpath.Path {
	dir := f.Path.Parent()
	if f.Stage != nil && f.Stage.Wdir != "" {
		dir = dir.Join(f.Stage.Wdir)
	}
	return dir
}

// PipelineFile is a `dvc.yaml` manifest found in the tree, with its lock file
// when one sits next to it.
type PipelineFile struct {
	// Path is relative to the scan root.
	Path relpath.Path
	Spec *schema.Pipeline
	Lock *schema.LockFile
}

// Dir returns the directory holding the manifest, relative to the scan root.
func (p PipelineFile) Dir() relpath.Path {
	return p.Path.Parent()
}

// LockPath returns where the manifest's lock file is expected.
func (p PipelineFile) LockPath() relpath.Path {
	return p.Path.WithExtension(LockExtension)
}

// Tree is the result of scanning a directory.
type Tree struct {
	// Root is the filesystem path that was scanned.
	Root      string
	DvcFiles  []DvcFile
	Pipelines []PipelineFile
}

// Scan walks the directory at root and assembles the Tree.
func Scan(ctx context.Context, root string) (*Tree, error) {
	sources, err := ScanSources(ctx, root)
	if err != nil {
		return nil, err
	}

	tree, err := Assemble(root, sources)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("Scanned DVC tree.",
		"root", root,
		"dvc_files", len(tree.DvcFiles),
		"pipelines", len(tree.Pipelines),
		"locked_pipelines", tree.lockedPipelines(),
	)
	return tree, nil
}

// Assemble groups decoded sources into a Tree. Every source path is
// expressed relative to root; a path that cannot be fails with
// relpath.ErrBadPath. Lock files are attached to the manifest whose path,
// with its extension replaced by `lock`, is theirs.
func Assemble(root string, sources []Source) (*Tree, error) {
	tree := &Tree{Root: root}
	locks := make(map[relpath.Path]*schema.LockFile)

	for _, src := range sources {
		path, err := relpath.FromFilesystem(root, src.FSPath)
		if err != nil {
			return nil, err
		}

		switch src.Kind {
		case KindDvcFile:
			tree.DvcFiles = append(tree.DvcFiles, DvcFile{Path: path, Stage: src.DvcFile})
		case KindPipeline:
			tree.Pipelines = append(tree.Pipelines, PipelineFile{Path: path, Spec: src.Pipeline})
		case KindLock:
			locks[path] = src.Lock
		default:
			return nil, fmt.Errorf("source %s: unknown kind %v", src.FSPath, src.Kind)
		}
	}

	for i := range tree.Pipelines {
		pf := &tree.Pipelines[i]
		if lock, ok := locks[pf.LockPath()]; ok {
			pf.Lock = lock
		}
	}

	return tree, nil
}

func (t *Tree) lockedPipelines() int {
	n := 0
	for _, pf := range t.Pipelines {
		if pf.Lock != nil {
			n++
		}
	}
	return n
}
