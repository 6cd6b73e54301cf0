// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package schema

import (
	"github.com/vk/dvctree/internal/relpath"
	"gopkg.in/yaml.v3"
)

// DvcFile is a decoded `.dvc` file.
//
// Modern `.dvc` files track a single output, and occasionally a dependency
// such as a download URL. Early versions used them for whole pipelines; those
// share the same dependency and output shapes, so they decode here as well.
// Artifact lists use the record shape (`- path: x`), not the pipeline
// shorthand.
type DvcFile struct {
	// Wdir is the working directory relative to the directory holding the
	// file; empty means that directory.
	Wdir relpath.Path `yaml:"wdir,omitempty" json:"wdir,omitempty"`
	MD5  string       `yaml:"md5,omitempty" json:"md5,omitempty"`
	Outs []Out        `yaml:"outs,omitempty" json:"outs,omitempty"`
	Deps []Dep        `yaml:"deps,omitempty" json:"deps,omitempty"`
}

// DecodeDvcFile decodes the contents of a `.dvc` file. An empty document
// yields an empty DvcFile.
func DecodeDvcFile(data []byte) (*DvcFile, error) {
	var f DvcFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
