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

// CollectQuota captures a project's quota. Terminal in the dependency
// graph and deduplicated through the run context: at most one quota
// artifact per project per run, regardless of how many roots or
// dependents resolve to the project.
func (e *Engine) CollectQuota(ctx context.Context, projectID string) BranchResult {
	ref := ResourceRef{Kind: KindProject, ID: projectID}

	if projectID == "" {
		slog.Warn("no project id provided for quota collection")
		return e.skipped(ref, "empty project id")
	}

	if !e.cctx.MarkCollected(projectID) {
		return e.skipped(ref, "quota already collected for project "+projectID)
	}

	slog.Info("collecting project quota", "project", projectID)
	res := e.run.Run(ctx, openstack.CommandName, "quota", "show", projectID)
	if !res.OK() {
		return e.failed(ref, "quota show", res.Output)
	}
	e.save(res, dirQuota+"/project_"+projectID+"_quota.txt")

	return e.collected(ref)
}

// collectProjectQuotaFor resolves a project identifier through the given
// single-field query and collects its quota. An unresolved project is a
// soft-miss.
func (e *Engine) collectProjectQuotaFor(ctx context.Context, ownerID string, queryArgs ...string) {
	res := e.run.Run(ctx, queryArgs...)
	projectID, found := openstack.Value(res)
	if !found {
		e.skipped(ResourceRef{Kind: KindProject, ID: ownerID}, "could not resolve project for "+ownerID)
		return
	}
	e.CollectQuota(ctx, projectID)
}
