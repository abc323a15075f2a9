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

package collect

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pcd-tools/pcdebug/pkg/openstack"
)

// healthConcurrency bounds the parallel health queries so the battery
// does not burst the control plane.
const healthConcurrency = 3

// healthCheck is one fixed query of the cluster-wide health battery.
type healthCheck struct {
	name string
	args []string
}

// healthChecks is the fixed battery captured once per invocation whenever
// at least one cloud-platform root is requested, giving every debugging
// session a baseline cluster snapshot.
var healthChecks = []healthCheck{
	{"compute_services", []string{openstack.CommandName, "compute", "service", "list", "--long", "--timing"}},
	{"resource_providers", []string{openstack.CommandName, "resource", "provider", "list"}},
	{"network_agents", []string{openstack.CommandName, "network", "agent", "list", "--long"}},
	{"hypervisors", []string{openstack.CommandName, "hypervisor", "list", "--long"}},
	{"hypervisor_stats", []string{openstack.CommandName, "hypervisor", "stats", "show"}},
	{"volume_services", []string{openstack.CommandName, "volume", "service", "list", "--long"}},
	{"storage_backend_pools", []string{openstack.CommandName, "volume", "backend", "pool", "list", "--long"}},
}

// CollectHealth captures the cluster health battery. The checks share no
// state beyond the sink (distinct paths), so they run concurrently. A
// failed check still produces its artifact: the failure text is part of
// the baseline snapshot, and it never aborts the run.
func (e *Engine) CollectHealth(ctx context.Context) {
	slog.Info("collecting cluster health snapshot", "checks", len(healthChecks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(healthConcurrency)

	for _, hc := range healthChecks {
		g.Go(func() error {
			res := e.run.Run(gctx, hc.args...)
			e.save(res, dirHealth+"/"+hc.name+".txt")
			return nil
		})
	}

	// Workers never return errors; Wait only orders completion.
	_ = g.Wait()
}
