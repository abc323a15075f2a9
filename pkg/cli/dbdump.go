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

	"github.com/pcd-tools/pcdebug/pkg/dbdump"
	"github.com/pcd-tools/pcdebug/pkg/k8s/client"
	"github.com/pcd-tools/pcdebug/pkg/sink"
)

func dbDumpCmd() *cli.Command {
	return &cli.Command{
		Name:                  "db-dump",
		EnableShellCompletion: true,
		Usage:                 "Dump the control-plane MySQL database through the management cluster",
		Description: `Extract a full mysqldump of the control-plane database.

The command resolves the database server and its admin credentials from
the configuration store inside the resource-manager pod, then streams
mysqldump --all-databases through the database proxy pod. The result is
saved gzip-compressed under <output>/database/.

The entire dump is bounded by a 30 minute timeout.

# Examples

Dump using the current kubeconfig context:
  pcdebug db-dump --namespace pcd

Non-default proxy deployment:
  pcdebug db-dump --namespace pcd \
    --db-pod-label app.kubernetes.io/name=haproxy \
    --db-service-name mysql-haproxy`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "namespace",
				Aliases:  []string{"n"},
				Required: true,
				Usage:    "Kubernetes namespace holding the control-plane pods",
				Sources:  cli.EnvVars("PCDEBUG_NAMESPACE"),
			},
			&cli.StringFlag{
				Name:  "db-pod-label",
				Usage: "Label selector for the database proxy pod",
				Value: dbdump.DefaultDBPodLabel,
			},
			&cli.StringFlag{
				Name:  "db-service-name",
				Usage: "Service name mysqldump connects to",
				Value: dbdump.DefaultDBServiceName,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: pcdebug-<timestamp> in the working directory)",
				Sources: cli.EnvVars("PCDEBUG_OUTPUT"),
			},
			kubeconfigFlag,
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

			clientset, config, err := client.BuildKubeClient(cmd.String("kubeconfig"))
			if err != nil {
				slog.Error("failed to build kubernetes client", "error", err)
				return nil
			}

			d := dbdump.NewDumper(
				clientset,
				dbdump.NewSPDYPodExecutor(clientset, config),
				snk,
				dbdump.Config{
					Namespace:     cmd.String("namespace"),
					DBPodLabel:    cmd.String("db-pod-label"),
					DBServiceName: cmd.String("db-service-name"),
				},
			)

			// Dump failures are reported, not propagated; the collection
			// contract reserves non-zero exits for unusable invocations.
			if err := d.Run(ctx); err != nil {
				slog.Error("database dump failed", "error", err)
				return nil
			}

			slog.Info("database dump saved", "output", snk.Root())
			return nil
		},
	}
}
