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

// CollectUser captures an identity user: its show, role assignments, and
// the default project's quota.
func (e *Engine) CollectUser(ctx context.Context, userID string) BranchResult {
	ref := ResourceRef{Kind: KindUser, ID: userID}
	slog.Info("collecting user details", "user", userID)

	show := e.run.Run(ctx, openstack.CommandName, "user", "show", userID)
	if !show.OK() {
		return e.failed(ref, "user show", show.Output)
	}
	e.save(show, dirIdentity+"/user_"+userID+"_show.txt")

	roles := e.run.Run(ctx, openstack.CommandName, "role", "assignment", "list", "--user", userID, "--names")
	if roles.OK() {
		e.save(roles, dirIdentity+"/user_"+userID+"_role_assignments.txt")
	} else {
		e.failed(ref, "role assignment list", roles.Output)
	}

	e.collectProjectQuotaFor(ctx, userID,
		openstack.CommandName, "user", "show", userID, "-c", "default_project_id", "-f", "value")

	return e.collected(ref)
}
