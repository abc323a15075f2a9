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

	"github.com/pcd-tools/pcdebug/pkg/openstack"
)

// CollectNetwork captures a network's detail and every subnet's show.
func (e *Engine) CollectNetwork(ctx context.Context, networkID string) BranchResult {
	ref := ResourceRef{Kind: KindNetwork, ID: networkID}
	slog.Info("collecting network details", "network", networkID)

	show := e.run.Run(ctx, openstack.CommandName, "network", "show", networkID)
	if !show.OK() {
		return e.failed(ref, "network show", show.Output)
	}
	e.save(show, dirNetwork+"/network_"+networkID+".txt")

	ids := e.run.Run(ctx, openstack.CommandName, "subnet", "list", "--network", networkID, "-c", "ID", "-f", "value")
	if !ids.OK() {
		e.failed(ResourceRef{Kind: KindSubnet, ID: networkID}, "subnet list", ids.Output)
		return e.collected(ref)
	}

	subnets := openstack.List(ids)
	slog.Info("found subnets for network", "network", networkID, "count", len(subnets))

	for _, subnetID := range subnets {
		res := e.run.Run(ctx, openstack.CommandName, "subnet", "show", subnetID)
		if !res.OK() {
			e.failed(ResourceRef{Kind: KindSubnet, ID: subnetID}, "subnet show", res.Output)
			continue
		}
		e.save(res, dirNetwork+"/subnet_"+subnetID+".txt")
		e.collected(ResourceRef{Kind: KindSubnet, ID: subnetID})
	}

	return e.collected(ref)
}
