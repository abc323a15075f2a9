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

// CollectImage captures an image's detail. When reached as a dependency
// of a VM, viaVM names that VM and shapes the artifact path; roots pass
// an empty viaVM.
func (e *Engine) CollectImage(ctx context.Context, imageID, viaVM string) BranchResult {
	ref := ResourceRef{Kind: KindImage, ID: imageID}
	slog.Info("collecting image details", "image", imageID)

	res := e.run.Run(ctx, openstack.CommandName, "image", "show", imageID)
	if !res.OK() {
		return e.failed(ref, "image show", res.Output)
	}

	name := "image_" + imageID + ".txt"
	if viaVM != "" {
		name = "image_of_vm_" + viaVM + ".txt"
	}
	e.save(res, dirVM+"/"+name)

	return e.collected(ref)
}

// collectImageAndFlavor resolves the VM's image and flavor identifiers
// and captures both. The image field renders as "Name (uuid)"; the flavor
// field varies across deployments and goes through the two-form fallback.
// Either missing identifier is a soft-miss.
func (e *Engine) collectImageAndFlavor(ctx context.Context, vmID string) {
	imgRes := e.run.Run(ctx, openstack.CommandName, "server", "show", vmID, "-c", "image", "-f", "value")
	imageID := ""
	if raw, found := openstack.Value(imgRes); found {
		imageID, _ = openstack.ParentheticalID(raw)
	}

	if imageID != "" {
		e.CollectImage(ctx, imageID, vmID)
	} else {
		e.skipped(ResourceRef{Kind: KindImage, ID: vmID}, "no image id found for vm "+vmID)
	}

	flvRes := e.run.Run(ctx, openstack.CommandName, "server", "show", vmID, "-c", "flavor", "-f", "value")
	flavorID := ""
	if raw, found := openstack.Value(flvRes); found {
		flavorID, _ = openstack.FlavorID(raw)
	}

	if flavorID == "" {
		slog.Warn("could not determine a valid flavor id", "vm", vmID)
		e.skipped(ResourceRef{Kind: KindFlavor, ID: vmID}, "no flavor id found for vm "+vmID)
		return
	}

	slog.Info("collecting flavor details", "flavor", flavorID)
	res := e.run.Run(ctx, openstack.CommandName, "flavor", "show", flavorID)
	if !res.OK() {
		e.failed(ResourceRef{Kind: KindFlavor, ID: flavorID}, "flavor show", res.Output)
		return
	}
	e.save(res, dirVM+"/flavor_"+flavorID+"_show.txt")
	e.collected(ResourceRef{Kind: KindFlavor, ID: flavorID})
}
