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

// CollectStack captures an orchestration stack: its show, the resource
// list, a per-resource show for every listed resource, and the owning
// project's quota.
func (e *Engine) CollectStack(ctx context.Context, stackID string) BranchResult {
	ref := ResourceRef{Kind: KindStack, ID: stackID}
	slog.Info("collecting stack details", "stack", stackID)

	show := e.run.Run(ctx, openstack.CommandName, "stack", "show", stackID)
	if !show.OK() {
		return e.failed(ref, "stack show", show.Output)
	}
	e.save(show, dirOrchestration+"/stack_"+stackID+"_show.txt")

	listed := e.run.Run(ctx, openstack.CommandName, "stack", "resource", "list", stackID)
	if listed.OK() {
		e.save(listed, dirOrchestration+"/stack_"+stackID+"_resources.txt")
	}

	names := e.run.Run(ctx, openstack.CommandName, "stack", "resource", "list", stackID, "-c", "resource_name", "-f", "value")
	if !names.OK() {
		e.failed(ResourceRef{Kind: KindStackResource, ID: stackID}, "stack resource list", names.Output)
	} else {
		for _, name := range openstack.List(names) {
			res := e.run.Run(ctx, openstack.CommandName, "stack", "resource", "show", stackID, name)
			if !res.OK() {
				e.failed(ResourceRef{Kind: KindStackResource, ID: name}, "stack resource show", res.Output)
				continue
			}
			e.save(res, dirOrchestration+"/resource_"+name+".txt")
			e.collected(ResourceRef{Kind: KindStackResource, ID: name})
		}
	}

	e.collectProjectQuotaFor(ctx, stackID,
		openstack.CommandName, "stack", "show", stackID, "-c", "project", "-f", "value")

	return e.collected(ref)
}
