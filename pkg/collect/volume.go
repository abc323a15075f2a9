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

// CollectVolume captures a volume's detail and its attachments. The
// human-readable show is saved but never parsed: tables can truncate the
// attachments field, so attachments come from a machine-readable JSON
// re-query. When the volume is a traversal root (dep false), each
// attachment's server triggers the VM back-edge: VM core state and ports,
// but not the VM's volumes, so mutual recursion is impossible.
func (e *Engine) CollectVolume(ctx context.Context, volumeID string, dep bool) BranchResult {
	ref := ResourceRef{Kind: KindVolume, ID: volumeID}
	slog.Info("collecting volume details", "volume", volumeID)

	prefix := "volume"
	if dep {
		prefix = "attached_volume"
	}

	show := e.run.Run(ctx, openstack.CommandName, "volume", "show", volumeID)
	if !show.OK() {
		return e.failed(ref, "volume show", show.Output)
	}
	e.save(show, dirStorage+"/"+prefix+"_"+volumeID+".txt")

	e.collectVolumeAttachments(ctx, volumeID, dep)

	return e.collected(ref)
}

// collectVolumeAttachments re-queries the attachments field as JSON and
// captures each attachment's detail. A malformed payload fails this
// branch only; sibling volumes and the rest of the traversal continue.
func (e *Engine) collectVolumeAttachments(ctx context.Context, volumeID string, dep bool) {
	res := e.run.Run(ctx, openstack.CommandName, "volume", "show", volumeID, "-c", "attachments", "-f", "json")
	if !res.OK() || res.Empty() {
		e.skipped(ResourceRef{Kind: KindVolumeAttachment, ID: volumeID},
			"no attachment information for volume "+volumeID)
		return
	}

	field, err := openstack.JSONField(res.Output, "attachments")
	if err != nil {
		e.failed(ResourceRef{Kind: KindVolumeAttachment, ID: volumeID}, "parse attachments json", err.Error())
		return
	}

	attachments, ok := field.([]any)
	if !ok {
		e.failed(ResourceRef{Kind: KindVolumeAttachment, ID: volumeID},
			"parse attachments json", "attachments field is not a list")
		return
	}

	for _, a := range attachments {
		rec, ok := a.(map[string]any)
		if !ok {
			continue
		}
		attachmentID, _ := rec["attachment_id"].(string)
		serverID, _ := rec["server_id"].(string)

		if attachmentID != "" {
			slog.Info("collecting volume attachment", "attachment", attachmentID, "server", serverID)
			detail := e.run.Run(ctx, openstack.CommandName, "volume", "attachment", "show", attachmentID)
			if detail.OK() {
				e.save(detail, dirStorage+"/volume_"+volumeID+"_attachment_"+attachmentID+".txt")
				e.collected(ResourceRef{Kind: KindVolumeAttachment, ID: attachmentID})
			} else {
				e.failed(ResourceRef{Kind: KindVolumeAttachment, ID: attachmentID},
					"volume attachment show", detail.Output)
			}
		}

		// Back-edge: only volumes queried as roots re-enter VM collection.
		if serverID != "" && !dep {
			slog.Info("volume attached to server, collecting related vm state",
				"volume", volumeID, "server", serverID)
			e.collectVMCore(ctx, serverID)
			e.collectPortsForVM(ctx, serverID)
		}
	}
}
