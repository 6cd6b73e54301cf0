// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package schema

import "gopkg.in/yaml.v3"

// LockFile is a decoded `dvc.lock` file.
type LockFile struct {
	Schema string               `yaml:"schema" json:"schema"`
	Stages map[string]LockStage `yaml:"stages" json:"stages"`
}

// LockStage is the resolved state of one stage. The stage name is the
// expanded one, so repeated stages appear as `name@label`.
type LockStage struct {
	Cmd  string `yaml:"cmd" json:"cmd"`
	Deps []Dep  `yaml:"deps,omitempty" json:"deps,omitempty"`
	Outs []Out  `yaml:"outs,omitempty" json:"outs,omitempty"`
}

// UnmarshalYAML decodes a lock entry. Like in manifests, `cmd` may be a
// list of strings.
func (s *LockStage) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Cmd  yaml.Node `yaml:"cmd"`
		Deps []Dep     `yaml:"deps"`
		Outs []Out     `yaml:"outs"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	cmd, err := decodeCmd(&raw.Cmd)
	if err != nil {
		return err
	}
	*s = LockStage{Cmd: cmd, Deps: raw.Deps, Outs: raw.Outs}
	return nil
}

// Stage returns the lock entry recorded for a stage name.
func (l *LockFile) Stage(name string) (*LockStage, bool) {
	if l == nil {
		return nil, false
	}
	st, ok := l.Stages[name]
	if !ok {
		return nil, false
	}
	return &st, true
}

// DecodeLockFile decodes the contents of a `dvc.lock` file.
func DecodeLockFile(data []byte) (*LockFile, error) {
	var f LockFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
