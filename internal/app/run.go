// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"context"
	"fmt"

	"github.com/vk/dvctree/internal/ctxlog"
	"github.com/vk/dvctree/internal/dvctree"
)

// Run scans the configured root and prints the result of the configured
// command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command, "root", a.config.Root)

	tree, err := dvctree.Scan(ctx, a.config.Root)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", a.config.Root, err)
	}

	switch a.config.Command {
	case CommandScan:
		report, err := newScanReport(tree)
		if err != nil {
			return fmt.Errorf("failed to expand pipelines: %w", err)
		}
		if err := a.print(report, report.writeText); err != nil {
			return err
		}
	case CommandOutputs:
		outs, err := tree.Outputs()
		if err != nil {
			return fmt.Errorf("failed to resolve outputs: %w", err)
		}
		a.logger.Debug("Outputs resolved.", "count", len(outs))
		report := outputsReport(outs)
		if report == nil {
			report = outputsReport{}
		}
		if err := a.print(report, report.writeText); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
