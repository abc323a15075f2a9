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

// CollectPort captures a port's detail, its security groups with their
// rules, and the owning network. dep marks ports reached through a VM,
// which use a distinct artifact prefix.
func (e *Engine) CollectPort(ctx context.Context, portID string, dep bool) BranchResult {
	ref := ResourceRef{Kind: KindPort, ID: portID}
	slog.Info("collecting port details", "port", portID)

	prefix := "port"
	if dep {
		prefix = "vm_port"
	}

	show := e.run.Run(ctx, openstack.CommandName, "port", "show", portID)
	if !show.OK() {
		return e.failed(ref, "port show", show.Output)
	}
	e.save(show, dirNetwork+"/"+prefix+"_"+portID+".txt")

	e.collectSecurityGroupsForPort(ctx, portID)

	netRes := e.run.Run(ctx, openstack.CommandName, "port", "show", portID, "-c", "network_id", "-f", "value")
	if networkID, found := openstack.Value(netRes); found {
		e.CollectNetwork(ctx, networkID)
	} else {
		e.skipped(ResourceRef{Kind: KindNetwork, ID: portID}, "no network id resolved for port "+portID)
	}

	return e.collected(ref)
}

// collectSecurityGroupsForPort resolves the port's security groups from
// the security_group_ids literal and captures each group's detail and
// rule list. A parse failure abandons this branch only.
func (e *Engine) collectSecurityGroupsForPort(ctx context.Context, portID string) {
	res := e.run.Run(ctx, openstack.CommandName, "port", "show", portID, "-c", "security_group_ids", "-f", "value")
	raw, found := openstack.Value(res)
	if !found {
		e.skipped(ResourceRef{Kind: KindSecurityGroup, ID: portID}, "no security groups for port "+portID)
		return
	}

	sgIDs, err := openstack.LiteralStrings(raw)
	if err != nil {
		e.failed(ResourceRef{Kind: KindSecurityGroup, ID: portID}, "parse security_group_ids", err.Error())
		return
	}

	slog.Info("found security groups for port", "port", portID, "count", len(sgIDs))

	for _, sgID := range sgIDs {
		show := e.run.Run(ctx, openstack.CommandName, "security", "group", "show", sgID)
		if !show.OK() {
			e.failed(ResourceRef{Kind: KindSecurityGroup, ID: sgID}, "security group show", show.Output)
			continue
		}
		e.save(show, dirNetwork+"/security_group_"+sgID+".txt")

		rules := e.run.Run(ctx, openstack.CommandName, "security", "group", "rule", "list", sgID)
		if rules.OK() {
			e.save(rules, dirNetwork+"/security_group_"+sgID+"_rules.txt")
		} else {
			e.failed(ResourceRef{Kind: KindSecurityGroup, ID: sgID}, "security group rule list", rules.Output)
		}
		e.collected(ResourceRef{Kind: KindSecurityGroup, ID: sgID})
	}
}
