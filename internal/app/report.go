// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vk/dvctree/internal/dvctree"
	"github.com/vk/dvctree/internal/relpath"
	"github.com/vk/dvctree/internal/schema"
	"gopkg.in/yaml.v3"
)

// print writes v in the configured output format, using text for the
// human-readable one.
func (a *App) print(v any, text func(w io.Writer) error) error {
	switch a.config.OutputFormat {
	case "json":
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(a.outW)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(a.outW)
	}
}

type scanReport struct {
	Root      string           `json:"root" yaml:"root"`
	DvcFiles  []dvcFileReport  `json:"dvc_files" yaml:"dvc_files"`
	Pipelines []pipelineReport `json:"pipelines" yaml:"pipelines"`
}

type dvcFileReport struct {
	Path relpath.Path `json:"path" yaml:"path"`
	Wdir relpath.Path `json:"wdir" yaml:"wdir"`
	MD5  string       `json:"md5,omitempty" yaml:"md5,omitempty"`
	Outs []schema.Out `json:"outs,omitempty" yaml:"outs,omitempty"`
	Deps []schema.Dep `json:"deps,omitempty" yaml:"deps,omitempty"`
}

type pipelineReport struct {
	Path   relpath.Path  `json:"path" yaml:"path"`
	Lock   relpath.Path  `json:"lock,omitempty" yaml:"lock,omitempty"`
	Stages []stageReport `json:"stages" yaml:"stages"`
}

type stageReport struct {
	Name    string         `json:"name" yaml:"name"`
	Cmd     string         `json:"cmd" yaml:"cmd"`
	Wdir    relpath.Path   `json:"wdir" yaml:"wdir"`
	Deps    schema.DepList `json:"deps,omitempty" yaml:"deps,omitempty"`
	Outs    schema.OutList `json:"outs,omitempty" yaml:"outs,omitempty"`
	Metrics schema.OutList `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Locked  bool           `json:"locked" yaml:"locked"`
}

func newScanReport(tree *dvctree.Tree) (*scanReport, error) {
	report := &scanReport{
		Root:      tree.Root,
		DvcFiles:  []dvcFileReport{},
		Pipelines: []pipelineReport{},
	}

	for _, f := range tree.DvcFiles {
		fr := dvcFileReport{Path: f.Path, Wdir: f.Wdir()}
		if f.Stage != nil {
			fr.MD5 = f.Stage.MD5
			fr.Outs = f.Stage.Outs
			fr.Deps = f.Stage.Deps
		}
		report.DvcFiles = append(report.DvcFiles, fr)
	}

	for _, pf := range tree.Pipelines {
		stages, err := pf.Stages()
		if err != nil {
			return nil, err
		}
		pr := pipelineReport{Path: pf.Path, Stages: []stageReport{}}
		if pf.Lock != nil {
			pr.Lock = pf.LockPath()
		}
		for _, st := range stages {
			pr.Stages = append(pr.Stages, stageReport{
				Name:    st.Name,
				Cmd:     st.Stage.Cmd,
				Wdir:    st.Wdir,
				Deps:    st.Stage.Deps,
				Outs:    st.Stage.Outs,
				Metrics: st.Stage.Metrics,
				Locked:  st.Lock != nil,
			})
		}
		report.Pipelines = append(report.Pipelines, pr)
	}

	return report, nil
}

func (r *scanReport) writeText(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Stages:\n")
	for _, f := range r.DvcFiles {
		fmt.Fprintf(&sb, "- %s (wdir: %s, outs: %d, deps: %d)\n", f.Path, f.Wdir, len(f.Outs), len(f.Deps))
	}

	sb.WriteString("Pipelines:\n")
	for _, p := range r.Pipelines {
		lock := "none"
		if p.Lock != "" {
			lock = p.Lock.String()
		}
		fmt.Fprintf(&sb, "- %s (lock: %s)\n", p.Path, lock)
		for _, st := range p.Stages {
			state := "unlocked"
			if st.Locked {
				state = "locked"
			}
			fmt.Fprintf(&sb, "  - %s [%s] wdir: %s, outs: %d, %s\n", st.Name, oneLine(st.Cmd), st.Wdir, len(st.Outs), state)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

type outputsReport []dvctree.Output

func (r outputsReport) writeText(w io.Writer) error {
	for _, out := range r {
		line := fmt.Sprintf("output: %s cache=%t", out.Path, out.Cache)
		if out.MD5 != "" {
			line += " md5=" + out.MD5
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func oneLine(cmd string) string {
	return strings.ReplaceAll(cmd, "\n", " && ")
}
