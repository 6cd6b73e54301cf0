// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the two artifact records, Dep and Out, and the Artifact
// interface they share.
package schema

import (
	"github.com/vk/dvctree/internal/interp"
	"github.com/vk/dvctree/internal/relpath"
	"gopkg.in/yaml.v3"
)

// Artifact is implemented by every dependency and output record.
type Artifact interface {
	// ArtifactPath returns the path as stored, relative to the working
	// directory of the declaring record.
	ArtifactPath() relpath.Path
	// Checksum returns the recorded MD5 checksum, or "" when unknown.
	Checksum() string

	setPath(p relpath.Path)
}

// Dep is a declared dependency.
type Dep struct {
	Path relpath.Path `yaml:"path" json:"path"`
	Wdir string       `yaml:"wdir,omitempty" json:"wdir,omitempty"`
	MD5  string       `yaml:"md5,omitempty" json:"md5,omitempty"`
	Size *int64       `yaml:"size,omitempty" json:"size,omitempty"`
}

// NewDep returns a dependency on path with every other field defaulted.
func NewDep(path relpath.Path) Dep {
	return Dep{Path: path}
}

func (d Dep) ArtifactPath() relpath.Path { return d.Path }
func (d Dep) Checksum() string           { return d.MD5 }
func (d *Dep) setPath(p relpath.Path)    { d.Path = p }

// Interpolate returns a copy of d with its path rendered against ctx.
func (d Dep) Interpolate(ctx *interp.Context) (Dep, error) {
	p, err := ctx.InterpolatePath(d.Path)
	if err != nil {
		return Dep{}, err
	}
	d.Path = p
	return d, nil
}

// Out is a declared output. Outputs are cached unless they opt out.
type Out struct {
	Path  relpath.Path `yaml:"path" json:"path"`
	Cache bool         `yaml:"cache" json:"cache"`
	MD5   string       `yaml:"md5,omitempty" json:"md5,omitempty"`
	Size  *int64       `yaml:"size,omitempty" json:"size,omitempty"`
}

// NewOut returns an output at path with every other field defaulted.
func NewOut(path relpath.Path) Out {
	return Out{Path: path, Cache: true}
}

func (o Out) ArtifactPath() relpath.Path { return o.Path }
func (o Out) Checksum() string           { return o.MD5 }
func (o *Out) setPath(p relpath.Path)    { o.Path = p }

// UnmarshalYAML decodes an output record, applying the defaults of NewOut to
// absent fields.
func (o *Out) UnmarshalYAML(node *yaml.Node) error {
	type plain Out
	p := plain(NewOut(""))
	if err := node.Decode(&p); err != nil {
		return err
	}
	*o = Out(p)
	return nil
}

// Interpolate returns a copy of o with its path rendered against ctx.
func (o Out) Interpolate(ctx *interp.Context) (Out, error) {
	p, err := ctx.InterpolatePath(o.Path)
	if err != nil {
		return Out{}, err
	}
	o.Path = p
	return o, nil
}
