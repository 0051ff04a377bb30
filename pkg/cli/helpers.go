/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/apiaudit/pkg/k8s/client"
	"github.com/NVIDIA/apiaudit/pkg/report"
	"github.com/NVIDIA/apiaudit/pkg/scanner"
)

// parseOutputFormat extracts and validates the output format from CLI flags.
func parseOutputFormat(cmd *cli.Command) (report.Format, error) {
	outFormat := report.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %s",
			outFormat, strings.Join(report.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// buildRegistry returns the default registry with the optional config file
// applied and then narrowed to the requested kinds.
func buildRegistry(configPath string, kinds []string) (*scanner.Registry, error) {
	reg := scanner.DefaultRegistry()

	if configPath != "" {
		cfg, err := scanner.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Apply(reg); err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
		}
	}

	if len(kinds) == 0 {
		return reg, nil
	}
	filtered, err := reg.Filter(kinds...)
	if err != nil {
		return nil, fmt.Errorf("invalid --kinds: %w", err)
	}
	return filtered, nil
}

func selectionFromCmd(cmd *cli.Command) client.Selection {
	return client.Selection{
		Context:  cmd.String("context"),
		All:      cmd.Bool("allcontexts"),
		Contains: cmd.String("contains"),
	}
}
