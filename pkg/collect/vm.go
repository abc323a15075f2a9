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
	"strings"

	"github.com/pcd-tools/pcdebug/pkg/openstack"
)

const hypervisorHostField = "OS-EXT-SRV-ATTR:hypervisor_hostname"

// CollectVM captures a VM root: its own state plus image/flavor, ports,
// volumes, and the owning project's quota.
func (e *Engine) CollectVM(ctx context.Context, vmID string) BranchResult {
	ref := ResourceRef{Kind: KindVM, ID: vmID}

	if br := e.collectVMCore(ctx, vmID); br.Outcome == OutcomeFailed {
		return br
	}

	e.collectImageAndFlavor(ctx, vmID)
	e.collectPortsForVM(ctx, vmID)
	e.collectVolumesForVM(ctx, vmID)
	e.collectProjectQuotaFor(ctx, vmID,
		openstack.CommandName, "server", "show", vmID, "-c", "project_id", "-f", "value")

	return e.collected(ref)
}

// collectVMCore captures the VM's show, event history, migration history,
// and (best-effort) the owning hypervisor host. It is shared between VM
// roots and the volume-attachment back-edge, which must not re-expand
// the VM's volumes.
func (e *Engine) collectVMCore(ctx context.Context, vmID string) BranchResult {
	ref := ResourceRef{Kind: KindVM, ID: vmID}

	show := e.run.Run(ctx, openstack.CommandName, "server", "show", vmID)
	if !show.OK() {
		return e.failed(ref, "server show", show.Output)
	}
	e.save(show, dirVM+"/server_"+vmID+"_show.txt")

	e.collectHypervisorHost(ctx, vmID, show.Output)

	events := e.run.Run(ctx, openstack.CommandName, "server", "event", "list", vmID)
	if events.OK() {
		e.save(events, dirVM+"/server_"+vmID+"_events.txt")
	} else {
		e.failed(ResourceRef{Kind: KindVM, ID: vmID}, "server event list", events.Output)
	}

	migrations := e.run.Run(ctx, openstack.CommandName, "server", "migration", "list", "--server", vmID)
	if migrations.OK() {
		e.save(migrations, dirVM+"/server_"+vmID+"_migrations.txt")
	} else {
		e.failed(ResourceRef{Kind: KindVM, ID: vmID}, "server migration list", migrations.Output)
	}

	return e.collected(ref)
}

// collectHypervisorHost resolves the hypervisor hostname from the VM's
// table output and captures its detail. A missing host field is a
// soft-miss: warned and skipped, never fatal.
func (e *Engine) collectHypervisorHost(ctx context.Context, vmID, showOutput string) {
	host := hypervisorHostname(showOutput)
	if host == "" {
		slog.Warn("could not find hypervisor hostname", "vm", vmID)
		e.skipped(ResourceRef{Kind: KindHypervisor, ID: "unknown"}, "no hypervisor hostname for vm "+vmID)
		return
	}

	slog.Info("collecting hypervisor details", "host", host)
	res := e.run.Run(ctx, openstack.CommandName, "hypervisor", "show", host)
	if !res.OK() {
		e.failed(ResourceRef{Kind: KindHypervisor, ID: host}, "hypervisor show", res.Output)
		return
	}
	e.save(res, dirVM+"/hypervisor_"+host+"_show.txt")
	e.collected(ResourceRef{Kind: KindHypervisor, ID: host})
}

// hypervisorHostname extracts the hypervisor hostname from the VM show
// table. Table rows render as "| field | value |".
func hypervisorHostname(showOutput string) string {
	for _, line := range strings.Split(showOutput, "\n") {
		if !strings.Contains(line, hypervisorHostField) {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) > 2 {
			return strings.TrimSpace(parts[2])
		}
	}
	return ""
}

// collectPortsForVM enumerates the VM's ports and collects each one,
// which in turn expands to networks and security groups.
func (e *Engine) collectPortsForVM(ctx context.Context, vmID string) {
	listed := e.run.Run(ctx, openstack.CommandName, "port", "list", "--device-id", vmID)
	if listed.OK() {
		e.save(listed, dirNetwork+"/vm_"+vmID+"_ports_list.txt")
	}

	ids := e.run.Run(ctx, openstack.CommandName, "port", "list", "--device-id", vmID, "-c", "ID", "-f", "value")
	if !ids.OK() {
		e.failed(ResourceRef{Kind: KindPort, ID: vmID}, "port list", ids.Output)
		return
	}

	for _, portID := range openstack.List(ids) {
		e.CollectPort(ctx, portID, true)
	}
}

// collectVolumesForVM resolves the VM's attached volumes from the
// volumes_attached field (a literal list of records) and collects each
// one as a dependency. A malformed payload skips this branch only.
func (e *Engine) collectVolumesForVM(ctx context.Context, vmID string) {
	res := e.run.Run(ctx, openstack.CommandName, "server", "show", vmID, "-c", "volumes_attached", "-f", "value")
	raw, found := openstack.Value(res)
	if !found {
		e.skipped(ResourceRef{Kind: KindVolume, ID: vmID}, "no volumes attached to vm "+vmID)
		return
	}

	records, err := openstack.LiteralRecords(raw)
	if err != nil {
		e.failed(ResourceRef{Kind: KindVolumeAttachment, ID: vmID}, "parse volumes_attached", err.Error())
		return
	}
	if len(records) == 0 {
		e.skipped(ResourceRef{Kind: KindVolume, ID: vmID}, "no volumes attached to vm "+vmID)
		return
	}

	e.save(res, dirStorage+"/vm_"+vmID+"_attached_volumes_list.txt")

	for _, rec := range records {
		volID, _ := rec["id"].(string)
		if volID == "" {
			continue
		}
		e.CollectVolume(ctx, volID, true)
	}
}
