// Copyright (c) 2025, the pcdebug authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/pcd-tools/pcdebug/pkg/archive"
	"github.com/pcd-tools/pcdebug/pkg/collect"
	"github.com/pcd-tools/pcdebug/pkg/defaults"
	"github.com/pcd-tools/pcdebug/pkg/openstack"
	"github.com/pcd-tools/pcdebug/pkg/sink"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Collect diagnostic data for one or more root resources",
		Description: `Collect the dependency neighborhood of the given root resources.

Each root starts an independent traversal. A VM root expands into its
image, flavor, ports (with security groups and networks), attached
volumes, and the owning project's quotas. A volume root additionally
walks back to the VMs it is attached to. Failures deep inside a branch
are recorded and logged, never abort siblings, and never fail the run;
only a failed authentication pre-flight exits non-zero.

Every invocation also captures a one-time control-plane health snapshot
(compute services, hypervisors, network agents, volume services).

# Examples

Collect everything around a misbehaving VM:
  pcdebug collect --vm 3a9f42d1-8c77-4e2a-b620-1f4c9f0f20aa

Collect a volume and the VMs it is attached to, then archive:
  pcdebug collect --volume vol-uuid --archive

Multiple roots in one run (health snapshot and quotas are deduplicated):
  pcdebug collect --vm vm-uuid --stack stack-uuid --output ./case-4711`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "vm",
				Usage: "Root VM (server) ID or name",
			},
			&cli.StringFlag{
				Name:  "image",
				Usage: "Root image ID or name",
			},
			&cli.StringFlag{
				Name:  "network",
				Usage: "Root network ID or name",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Root port ID",
			},
			&cli.StringFlag{
				Name:  "volume",
				Usage: "Root volume ID or name",
			},
			&cli.StringFlag{
				Name:  "stack",
				Usage: "Root orchestration stack ID or name",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Root user ID or name",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: pcdebug-<timestamp> in the working directory)",
				Sources: cli.EnvVars("PCDEBUG_OUTPUT"),
			},
			&cli.BoolFlag{
				Name:  "archive",
				Usage: "Zip the output directory after collection",
			},
			&cli.BoolFlag{
				Name:    "insecure",
				Usage:   "Skip TLS verification on cloud-platform queries",
				Sources: cli.EnvVars("PCDEBUG_INSECURE"),
			},
			&cli.BoolFlag{
				Name:  "fit",
				Usage: "Widen list/show table rendering so parsed fields are not truncated",
				Value: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outDir := cmd.String("output")
			if outDir == "" {
				outDir = defaultOutputDir(time.Now())
			}

			snk, err := sink.NewDirSink(outDir)
			if err != nil {
				return fmt.Errorf("failed to prepare output directory: %w", err)
			}

			cctx := collect.NewContext(snk.Root(),
				collect.WithInsecure(cmd.Bool("insecure")),
				collect.WithFitWidth(cmd.Bool("fit")),
			)
			run := openstack.NewRunner(append(cctx.RunnerOptions(),
				openstack.WithRateLimit(defaults.QueryRatePerSecond, defaults.QueryRateBurst))...)

			engine := collect.NewEngine(run, snk, cctx)
			roots := collect.Roots{
				VM:      cmd.String("vm"),
				Image:   cmd.String("image"),
				Network: cmd.String("network"),
				Port:    cmd.String("port"),
				Volume:  cmd.String("volume"),
				Stack:   cmd.String("stack"),
				User:    cmd.String("user"),
			}

			if err := engine.Run(ctx, roots); err != nil {
				return err
			}

			report := engine.Report()
			slog.Info("collection summary",
				"run", cctx.RunID,
				"collected", len(report.ByOutcome(collect.OutcomeCollected)),
				"skipped", len(report.ByOutcome(collect.OutcomeSkipped)),
				"failed", len(report.ByOutcome(collect.OutcomeFailed)))

			location := snk.Root()
			if cmd.Bool("archive") {
				zipPath, err := archive.ZipDir(snk.Root())
				if err != nil {
					slog.Error("failed to archive output directory", "error", err)
				} else {
					location = zipPath
				}
			}

			slog.Info("collection complete", "output", location)
			return nil
		},
	}
}

// defaultOutputDir names the per-run output directory after the local
// wall-clock time, matching the artifact naming operators expect when
// attaching results to a support case.
func defaultOutputDir(now time.Time) string {
	return "pcdebug-" + now.Format("20060102-150405")
}
