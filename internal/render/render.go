// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package render expands the stage entries of a pipeline into concrete stages.
//
// A plain entry is passed through under its own name. A repeated entry is
// instantiated once per `foreach` label: its `do` template is interpolated
// with `item` bound to the label, and the result is named `<name>@<label>`.
package render

import (
	"errors"
	"fmt"

	"github.com/vk/dvctree/internal/interp"
	"github.com/vk/dvctree/internal/schema"
)

// ItemVar is the variable bound to the current label of a repeated stage.
const ItemVar = "item"

// ErrDuplicateStageKey is returned when two entries expand to the same stage
// name, e.g. a plain stage `train@x` next to a repeated `train` with label `x`.
var ErrDuplicateStageKey = errors.New("duplicate stage key")

// DuplicateStageError names the colliding stage key.
type DuplicateStageError struct {
	Key string
}

func (e *DuplicateStageError) Error() string {
	return fmt.Sprintf("%s %q", ErrDuplicateStageKey.Error(), e.Key)
}

func (e *DuplicateStageError) Unwrap() error { return ErrDuplicateStageKey }

// NamedStage is a concrete stage with its expanded name.
type NamedStage struct {
	Name  string
	Stage schema.Stage
	// Entry is the key of the pipeline entry the stage was expanded from.
	Entry string
	// Label is the foreach label of a repeated entry, empty for plain ones.
	Label string
}

// StageKey returns the expanded name of a repeated entry's label.
func StageKey(name, label string) string {
	return name + "@" + label
}

// ExpandEntries expands every entry of p, in declaration order and, within a
// repeated entry, in label order. The first interpolation failure aborts the
// expansion.
func ExpandEntries(p *schema.Pipeline) ([]NamedStage, error) {
	var out []NamedStage
	seen := make(map[string]struct{})

	add := func(ns NamedStage) error {
		if _, dup := seen[ns.Name]; dup {
			return &DuplicateStageError{Key: ns.Name}
		}
		seen[ns.Name] = struct{}{}
		out = append(out, ns)
		return nil
	}

	for _, name := range p.StageNames() {
		entry := p.Stages[name]
		switch entry.Kind() {
		case schema.PlainStage:
			if err := add(NamedStage{Name: name, Stage: entry.Stage, Entry: name}); err != nil {
				return nil, err
			}
		case schema.RepeatedStage:
			for _, label := range entry.Foreach {
				ctx := interp.NewContext(map[string]string{ItemVar: label})
				stage, err := entry.Do.Interpolate(ctx)
				if err != nil {
					return nil, fmt.Errorf("stage %q, item %q: %w", name, label, err)
				}
				if err := add(NamedStage{Name: StageKey(name, label), Stage: stage, Entry: name, Label: label}); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("stage %q: unknown entry kind %v", name, entry.Kind())
		}
	}

	return out, nil
}

// ExpandMap is ExpandEntries keyed by stage name.
func ExpandMap(p *schema.Pipeline) (map[string]schema.Stage, error) {
	stages, err := ExpandEntries(p)
	if err != nil {
		return nil, err
	}
	m := make(map[string]schema.Stage, len(stages))
	for _, ns := range stages {
		m[ns.Name] = ns.Stage
	}
	return m, nil
}
