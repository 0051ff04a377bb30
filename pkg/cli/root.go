/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/apiaudit/pkg/logging"
)

const name = "apiaudit"

var (
	// overridden at build time via ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var kubeconfigFlag = &cli.StringFlag{
	Name:    "kubeconfig",
	Aliases: []string{"k"},
	Usage:   "Path to kubeconfig file (default: standard client-go loading rules)",
	Sources: cli.EnvVars("KUBECONFIG"),
}

// Execute runs the apiaudit command with os.Args and exits non-zero on error.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Find objects last written with a Kubernetes API version that has been removed",
		Description: `Scans one or more clusters and reports every object whose managed fields show
that it was last applied through a removed API version. Objects whose manager
has since written them with a newer version are not reported.

# Examples

Audit the current context:
  apiaudit

Audit every production context and write JSON:
  apiaudit --allcontexts --contains prod --format json -o findings.json

Only check webhooks and CRDs:
  apiaudit --kinds validating_web_hook,mutating_web_hook,crd`,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := logging.LevelFromEnv()
			if cmd.Bool("debug") {
				level = logging.ParseLevel("debug")
			}
			logging.SetDefaultStructuredLogger(name, version, level, cmd.Bool("log-json"))
			return ctx, nil
		},
		Flags:  auditFlags(),
		Action: auditAction,
	}
}
