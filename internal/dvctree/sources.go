// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dvctree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/vk/dvctree/internal/ctxlog"
	"github.com/vk/dvctree/internal/fsutil"
	"github.com/vk/dvctree/internal/schema"
)

const (
	// PipelineFileName is the name of a pipeline manifest.
	PipelineFileName = "dvc.yaml"
	// LockFileName is the name of a pipeline lock file.
	LockFileName = "dvc.lock"
	// DvcFileSuffix ends the name of every single-artifact file.
	DvcFileSuffix = ".dvc"
	// LockExtension replaces a manifest's extension to locate its lock file.
	LockExtension = "lock"
)

// SourceKind classifies a recognized file.
type SourceKind int

const (
	// KindDvcFile is a `*.dvc` single-artifact file.
	KindDvcFile SourceKind = iota + 1
	// KindPipeline is a `dvc.yaml` pipeline manifest.
	KindPipeline
	// KindLock is a `dvc.lock` lock file.
	KindLock
)

func (k SourceKind) String() string {
	switch k {
	case KindDvcFile:
		return "dvcfile"
	case KindPipeline:
		return "pipeline"
	case KindLock:
		return "lock"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// Classify tells which kind of file a file name denotes. Matching is case
// sensitive; unrecognized names report false.
func Classify(name string) (SourceKind, bool) {
	switch {
	case name == PipelineFileName:
		return KindPipeline, true
	case name == LockFileName:
		return KindLock, true
	case strings.HasSuffix(name, DvcFileSuffix):
		return KindDvcFile, true
	default:
		return 0, false
	}
}

// Source is one decoded file. Exactly one of DvcFile, Pipeline and Lock is
// set, according to Kind.
type Source struct {
	// FSPath is the filesystem path the file was read from.
	FSPath string
	Kind   SourceKind

	DvcFile  *schema.DvcFile
	Pipeline *schema.Pipeline
	Lock     *schema.LockFile
}

// LoadSource reads and decodes the file at path as kind. Read failures are
// reported as schema.ErrIO, decoding failures as schema.ErrDecode, both
// wrapped in a *schema.FileError.
func LoadSource(path string, kind SourceKind) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, &schema.FileError{Path: path, Kind: schema.ErrIO, Err: err}
	}

	src := Source{FSPath: path, Kind: kind}
	switch kind {
	case KindDvcFile:
		src.DvcFile, err = schema.DecodeDvcFile(data)
	case KindPipeline:
		src.Pipeline, err = schema.DecodePipeline(data)
	case KindLock:
		src.Lock, err = schema.DecodeLockFile(data)
	default:
		return Source{}, fmt.Errorf("cannot load %s: unknown source kind %v", path, kind)
	}
	if err != nil {
		return Source{}, &schema.FileError{Path: path, Kind: schema.ErrDecode, Err: err}
	}
	return src, nil
}

// ScanSources walks the tree at root and decodes every recognized file.
// Sources are returned in visiting order.
func ScanSources(ctx context.Context, root string) ([]Source, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scanning tree.", "root", root)

	var sources []Source
	err := fsutil.WalkBreadthFirst(root, func(path string, d fs.DirEntry) error {
		kind, ok := Classify(d.Name())
		if !ok {
			return nil
		}
		src, err := LoadSource(path, kind)
		if err != nil {
			return err
		}
		logger.Debug("Loaded DVC file.", "path", path, "kind", kind)
		sources = append(sources, src)
		return nil
	})
	if err != nil {
		var fileErr *schema.FileError
		if errors.As(err, &fileErr) {
			return nil, err
		}
		path := root
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			path = pathErr.Path
		}
		return nil, &schema.FileError{Path: path, Kind: schema.ErrIO, Err: err}
	}

	return sources, nil
}
