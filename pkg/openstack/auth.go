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

package openstack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pcd-tools/pcdebug/pkg/defaults"
	"github.com/pcd-tools/pcdebug/pkg/errors"
)

// requiredEnvVars are the ambient credentials validated before any
// collection starts. Operators source these from their RC file.
var requiredEnvVars = []string{
	"OS_AUTH_URL",
	"OS_USERNAME",
	"OS_PROJECT_NAME",
}

// CheckAuth validates ambient credentials and performs an identity check
// against the control plane. Failure here is the single unconditionally
// fatal condition of a collection run.
func CheckAuth(ctx context.Context, r Runner) error {
	slog.Info("checking cloud-platform authentication")

	var missing []string
	for _, v := range requiredEnvVars {
		if os.Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeUnauthorized,
			fmt.Sprintf("missing environment variables: %s (source your RC file first)",
				strings.Join(missing, ", ")))
	}

	authCtx, cancel := context.WithTimeout(ctx, defaults.AuthCheckTimeout)
	defer cancel()

	res := r.Run(authCtx, CommandName, "token", "issue")
	if !res.OK() {
		return errors.Wrap(errors.ErrCodeUnauthorized,
			"unable to authenticate with the cloud platform",
			fmt.Errorf("%s", res.Output))
	}

	slog.Info("authentication validated")
	return nil
}
