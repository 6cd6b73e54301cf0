// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package dvctree

import (
	"fmt"

	"github.com/vk/dvctree/internal/relpath"
	"github.com/vk/dvctree/internal/render"
	"github.com/vk/dvctree/internal/schema"
)

// Output is a DVC-managed output file. Files that DVC merely tracks count as
// outputs too: they appear in the `outs` of their `.dvc` files.
type Output struct {
	// Path is relative to the scan root.
	Path  relpath.Path `json:"path" yaml:"path"`
	Cache bool         `json:"cache" yaml:"cache"`
	MD5   string       `json:"md5,omitempty" yaml:"md5,omitempty"`
	// Size is not computed by the scan and is always nil.
	Size *int64 `json:"size,omitempty" yaml:"size,omitempty"`
}

func newOutput(wdir relpath.Path, out schema.Out) Output {
	return Output{
		Path:  wdir.Join(out.Path),
		Cache: out.Cache,
		MD5:   out.MD5,
	}
}

// Outputs lists every output declared in the tree: those of `.dvc` files in
// scan order, then those of pipeline stages, pipeline by pipeline in scan
// order and stage by stage in expansion order. A pipeline that fails to
// expand fails the whole call.
func (t *Tree) Outputs() ([]Output, error) {
	var outs []Output

	for _, file := range t.DvcFiles {
		if file.Stage == nil {
			continue
		}
		wdir := file.Wdir()
		for _, out := range file.Stage.Outs {
			outs = append(outs, newOutput(wdir, out))
		}
	}

	for _, pipe := range t.Pipelines {
		stages, err := pipe.Stages()
		if err != nil {
			return nil, err
		}
		for _, st := range stages {
			for _, out := range st.Stage.Outs {
				outs = append(outs, newOutput(st.Wdir, out))
			}
		}
	}

	return outs, nil
}

// ResolvedStage is an expanded pipeline stage placed in the tree.
type ResolvedStage struct {
	// Pipeline is the path of the manifest declaring the stage.
	Pipeline relpath.Path
	Name     string
	Stage    schema.Stage
	// Wdir is the stage's working directory relative to the scan root.
	Wdir relpath.Path
	// Lock is the lock file entry recorded under Name, if any.
	Lock *schema.LockStage
}

// Stages expands the manifest and resolves each stage's working directory:
// the stage's `wdir` joined onto the manifest directory, or the manifest
// directory itself.
func (p PipelineFile) Stages() ([]ResolvedStage, error) {
	if p.Spec == nil {
		return nil, nil
	}

	expanded, err := render.ExpandEntries(p.Spec)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", p.Path, err)
	}

	dir := p.Dir()
	stages := make([]ResolvedStage, 0, len(expanded))
	for _, ns := range expanded {
		wdir := dir
		if ns.Stage.Wdir != "" {
			wdir = dir.Join(relpath.New(ns.Stage.Wdir))
		}
		lock, _ := p.Lock.Stage(ns.Name)
		stages = append(stages, ResolvedStage{
			Pipeline: p.Path,
			Name:     ns.Name,
			Stage:    ns.Stage,
			Wdir:     wdir,
			Lock:     lock,
		})
	}
	return stages, nil
}

// Stages lists the expanded stages of every pipeline in the tree.
func (t *Tree) Stages() ([]ResolvedStage, error) {
	var all []ResolvedStage
	for _, pipe := range t.Pipelines {
		stages, err := pipe.Stages()
		if err != nil {
			return nil, err
		}
		all = append(all, stages...)
	}
	return all, nil
}
