// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements the two-shape decoding of artifact lists used by
// pipeline stages.
//
// Each entry is either a bare path:
//
//	outs:
//	  - model.pkl
//
// or a mapping whose only key is the path and whose value holds the other
// attributes:
//
//	outs:
//	  - model.pkl:
//	      cache: false
//
// The key is the path, so a second key has no meaning and is rejected.
package schema

import (
	"fmt"

	"github.com/vk/dvctree/internal/relpath"
	"gopkg.in/yaml.v3"
)

// DepList is a list of dependencies in either artifact shape.
type DepList []Dep

// UnmarshalYAML implements the two-shape artifact list decoding.
func (l *DepList) UnmarshalYAML(node *yaml.Node) error {
	deps, err := decodeEntries[Dep](node, NewDep)
	if err != nil {
		return err
	}
	*l = deps
	return nil
}

// OutList is a list of outputs in either artifact shape.
type OutList []Out

// UnmarshalYAML implements the two-shape artifact list decoding.
func (l *OutList) UnmarshalYAML(node *yaml.Node) error {
	outs, err := decodeEntries[Out](node, NewOut)
	if err != nil {
		return err
	}
	*l = outs
	return nil
}

type artifactPtr[A any] interface {
	*A
	Artifact
}

func decodeEntries[A any, P artifactPtr[A]](node *yaml.Node, newArtifact func(relpath.Path) A) ([]A, error) {
	node = resolveAlias(node)
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: artifact list must be a sequence", node.Line)
	}

	entries := make([]A, 0, len(node.Content))
	for _, item := range node.Content {
		art, err := decodeEntry[A, P](item, newArtifact)
		if err != nil {
			return nil, err
		}
		entries = append(entries, art)
	}
	return entries, nil
}

func decodeEntry[A any, P artifactPtr[A]](node *yaml.Node, newArtifact func(relpath.Path) A) (A, error) {
	node = resolveAlias(node)
	art := newArtifact("")

	switch node.Kind {
	case yaml.ScalarNode:
		if isNull(node) {
			return art, fmt.Errorf("line %d: artifact entry must not be empty", node.Line)
		}
		P(&art).setPath(relpath.New(node.Value))
		return art, nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return art, &ArtifactEntryError{Line: node.Line, Keys: len(node.Content) / 2}
		}
		key, value := resolveAlias(node.Content[0]), resolveAlias(node.Content[1])
		if key.Kind != yaml.ScalarNode {
			return art, fmt.Errorf("line %d: artifact path must be a string", key.Line)
		}
		if !isNull(value) {
			if err := value.Decode(&art); err != nil {
				return art, err
			}
		}
		P(&art).setPath(relpath.New(key.Value))
		return art, nil

	default:
		return art, fmt.Errorf("line %d: artifact entry must be a path or a single-entry mapping", node.Line)
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}
