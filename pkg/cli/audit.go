/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/apiaudit/pkg/defaults"
	"github.com/NVIDIA/apiaudit/pkg/fleet"
	"github.com/NVIDIA/apiaudit/pkg/k8s/client"
	"github.com/NVIDIA/apiaudit/pkg/report"
	"github.com/NVIDIA/apiaudit/pkg/scanner"
)

func auditFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "context",
			Usage: "Audit only this kubeconfig context",
		},
		&cli.BoolFlag{
			Name:  "allcontexts",
			Usage: "Audit every context in the kubeconfig",
		},
		&cli.StringFlag{
			Name:  "contains",
			Usage: "With --allcontexts, only audit contexts whose name contains this string",
		},
		kubeconfigFlag,
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML file overriding the removed/required API versions per kind",
		},
		&cli.StringSliceFlag{
			Name:  "kinds",
			Usage: "Only scan these kinds (comma separated or repeated, e.g. --kinds crd,apiservice)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: fleet.DefaultWorkers,
			Usage: "Number of clusters scanned concurrently",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: defaults.ClusterScanTimeout,
			Usage: "Maximum time spent scanning a single cluster (0 disables)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"t"},
			Value:   string(report.FormatText),
			Usage:   "Output format: text, json or yaml",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics to this file after the audit (textfile collector format)",
		},
		&cli.Float64Flag{
			Name:  "qps",
			Value: client.DefaultQPS,
			Usage: "Client-side QPS limit per cluster",
		},
		&cli.IntFlag{
			Name:  "burst",
			Value: client.DefaultBurst,
			Usage: "Client-side burst limit per cluster",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "Output logs in JSON format",
		},
	}
}

func auditAction(ctx context.Context, cmd *cli.Command) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	timeout := cmd.Duration("timeout")
	if timeout == 0 {
		timeout = -1
	}

	if cmd.Int("workers") < 1 {
		return fmt.Errorf("invalid --workers value: %d (must be at least 1)", cmd.Int("workers"))
	}

	reg, err := buildRegistry(cmd.String("config"), cmd.StringSlice("kinds"))
	if err != nil {
		return err
	}

	factory := client.NewFactory(cmd.String("kubeconfig"))
	factory.QPS = float32(cmd.Float64("qps"))
	factory.Burst = cmd.Int("burst")

	contexts, err := client.ResolveContexts(factory, selectionFromCmd(cmd))
	if err != nil {
		return fmt.Errorf("failed to resolve contexts: %w", err)
	}

	slog.Debug("audit configuration",
		slog.Int("contexts", len(contexts)),
		slog.Int("kinds", reg.Count()),
		slog.String("format", string(outFormat)))

	w, err := report.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			slog.Warn("failed to close report output", slog.String("error", cerr.Error()))
		}
	}()

	o := &fleet.Orchestrator{
		Connector:      factory,
		Scanner:        scanner.New(reg),
		Workers:        cmd.Int("workers"),
		ClusterTimeout: timeout,
		Writer:         w,
	}
	if err := o.Audit(ctx, contexts); err != nil {
		return err
	}

	if path := cmd.String("metrics-file"); path != "" {
		if err := fleet.WriteMetrics(path); err != nil {
			return err
		}
		slog.Debug("metrics written", slog.String("path", path))
	}

	return nil
}
