// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Pipeline structure, the representation of a
// `dvc.yaml` manifest, together with its stage entries.
//
// A stage entry is a sum type. It is decoded by probing the mapping for a
// `foreach` key: with one it is a repeated entry whose `do` body is a stage
// template, without one it is a plain stage.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/dvctree/internal/interp"
	"gopkg.in/yaml.v3"
)

// Pipeline is a decoded `dvc.yaml` manifest.
type Pipeline struct {
	Stages map[string]StageEntry
	// Order lists the keys of Stages in declaration order.
	Order []string
}

// StageNames returns the stage keys in declaration order. Keys of a Pipeline
// assembled by hand without an Order are appended in sorted order.
func (p *Pipeline) StageNames() []string {
	if len(p.Order) == len(p.Stages) {
		return p.Order
	}
	names := make([]string, 0, len(p.Stages))
	seen := make(map[string]struct{}, len(p.Stages))
	for _, name := range p.Order {
		if _, ok := p.Stages[name]; ok {
			names = append(names, name)
			seen[name] = struct{}{}
		}
	}
	var rest []string
	for name := range p.Stages {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// UnmarshalYAML decodes the `stages` mapping, keeping its declaration order.
// Other top-level keys are ignored.
func (p *Pipeline) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Stages yaml.Node `yaml:"stages"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	p.Stages = make(map[string]StageEntry)
	p.Order = nil

	stages := resolveAlias(&raw.Stages)
	if isNull(stages) {
		return nil
	}
	if stages.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: stages must be a mapping", stages.Line)
	}

	for i := 0; i+1 < len(stages.Content); i += 2 {
		key, value := resolveAlias(stages.Content[i]), stages.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: stage name must be a string", key.Line)
		}
		name := key.Value
		if _, dup := p.Stages[name]; dup {
			return fmt.Errorf("line %d: stage %q is defined more than once", key.Line, name)
		}

		var entry StageEntry
		if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("stage %q: %w", name, err)
		}
		p.Stages[name] = entry
		p.Order = append(p.Order, name)
	}
	return nil
}

// StageKind tells the two StageEntry variants apart.
type StageKind int

const (
	// PlainStage is a single concrete stage.
	PlainStage StageKind = iota
	// RepeatedStage is a stage template instantiated once per label.
	RepeatedStage
)

func (k StageKind) String() string {
	switch k {
	case PlainStage:
		return "plain"
	case RepeatedStage:
		return "repeated"
	default:
		return fmt.Sprintf("StageKind(%d)", int(k))
	}
}

// StageEntry is one value of a pipeline's `stages` mapping.
type StageEntry struct {
	kind StageKind

	// Stage is the stage of a plain entry.
	Stage Stage
	// Foreach holds the labels of a repeated entry.
	Foreach []string
	// Do is the stage template of a repeated entry.
	Do Stage
}

// NewPlainEntry wraps a concrete stage.
func NewPlainEntry(stage Stage) StageEntry {
	return StageEntry{kind: PlainStage, Stage: stage}
}

// NewRepeatedEntry builds an entry instantiating do once per label.
func NewRepeatedEntry(foreach []string, do Stage) StageEntry {
	return StageEntry{kind: RepeatedStage, Foreach: foreach, Do: do}
}

// Kind reports which variant the entry holds.
func (e StageEntry) Kind() StageKind { return e.kind }

// UnmarshalYAML decodes either variant.
func (e *StageEntry) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: stage must be a mapping", node.Line)
	}

	if !hasKey(node, "foreach") {
		var stage Stage
		if err := node.Decode(&stage); err != nil {
			return err
		}
		*e = NewPlainEntry(stage)
		return nil
	}

	var raw struct {
		Foreach []string  `yaml:"foreach"`
		Do      yaml.Node `yaml:"do"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if isNull(&raw.Do) {
		return fmt.Errorf("line %d: foreach stage has no do body", node.Line)
	}
	var do Stage
	if err := raw.Do.Decode(&do); err != nil {
		return err
	}
	*e = NewRepeatedEntry(raw.Foreach, do)
	return nil
}

// Stage is a concrete or templated stage definition.
type Stage struct {
	Cmd string `yaml:"cmd" json:"cmd"`
	// Wdir is the stage working directory relative to the pipeline
	// directory; empty means the pipeline directory itself.
	Wdir    string  `yaml:"wdir,omitempty" json:"wdir,omitempty"`
	Deps    DepList `yaml:"deps,omitempty" json:"deps,omitempty"`
	Outs    OutList `yaml:"outs,omitempty" json:"outs,omitempty"`
	Metrics OutList `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// UnmarshalYAML decodes a stage. `cmd` is required and may be a string or a
// list of strings, which are joined with newlines.
func (s *Stage) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Cmd     yaml.Node `yaml:"cmd"`
		Wdir    string    `yaml:"wdir"`
		Deps    DepList   `yaml:"deps"`
		Outs    OutList   `yaml:"outs"`
		Metrics OutList   `yaml:"metrics"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Cmd.Kind == 0 {
		return fmt.Errorf("line %d: missing field `cmd`", node.Line)
	}
	cmd, err := decodeCmd(&raw.Cmd)
	if err != nil {
		return err
	}

	*s = Stage{
		Cmd:     cmd,
		Wdir:    raw.Wdir,
		Deps:    raw.Deps,
		Outs:    raw.Outs,
		Metrics: raw.Metrics,
	}
	return nil
}

// Interpolate renders the command, the working directory and every artifact
// path of s against ctx. The first failing field aborts the whole stage.
func (s Stage) Interpolate(ctx *interp.Context) (Stage, error) {
	var (
		out Stage
		err error
	)

	if out.Cmd, err = ctx.Interpolate(s.Cmd); err != nil {
		return Stage{}, fmt.Errorf("cmd: %w", err)
	}
	if s.Wdir != "" {
		if out.Wdir, err = ctx.Interpolate(s.Wdir); err != nil {
			return Stage{}, fmt.Errorf("wdir: %w", err)
		}
	}
	if out.Deps, err = interpolateAll(ctx, s.Deps); err != nil {
		return Stage{}, fmt.Errorf("deps: %w", err)
	}
	if out.Outs, err = interpolateAll(ctx, s.Outs); err != nil {
		return Stage{}, fmt.Errorf("outs: %w", err)
	}
	if out.Metrics, err = interpolateAll(ctx, s.Metrics); err != nil {
		return Stage{}, fmt.Errorf("metrics: %w", err)
	}
	return out, nil
}

func interpolateAll[T interp.Interpolatable[T]](ctx *interp.Context, items []T) ([]T, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		rendered, err := item.Interpolate(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

// decodeCmd accepts a command string or a list of command strings.
func decodeCmd(node *yaml.Node) (string, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case 0:
		return "", nil
	case yaml.SequenceNode:
		var parts []string
		if err := node.Decode(&parts); err != nil {
			return "", err
		}
		return strings.Join(parts, "\n"), nil
	default:
		var cmd string
		if err := node.Decode(&cmd); err != nil {
			return "", err
		}
		return cmd, nil
	}
}

// DecodePipeline decodes the contents of a `dvc.yaml` manifest.
func DecodePipeline(data []byte) (*Pipeline, error) {
	p := &Pipeline{Stages: map[string]StageEntry{}}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

func hasKey(node *yaml.Node, name string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if resolveAlias(node.Content[i]).Value == name {
			return true
		}
	}
	return false
}
