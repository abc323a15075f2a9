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

package defaults

import "time"

// Query timeouts for external command execution.
const (
	// QueryTimeout is the default timeout for a single cloud-platform query.
	QueryTimeout = 2 * time.Minute

	// AuthCheckTimeout is the timeout for the authentication pre-flight.
	AuthCheckTimeout = 1 * time.Minute
)

// Query rate limiting for external command execution.
const (
	// QueryRatePerSecond bounds the sustained cloud-platform query rate so
	// a deep traversal does not overwhelm the control plane.
	QueryRatePerSecond = 5.0

	// QueryRateBurst allows the health battery's parallel checks to start
	// without queuing behind each other.
	QueryRateBurst = 3
)

// Kubernetes timeouts for database-dump operations.
const (
	// DatabaseDumpTimeout bounds the entire database-dump step, including
	// the mysqldump stream. Expiry is fatal to the step, not the run.
	DatabaseDumpTimeout = 30 * time.Minute

	// K8sExecTimeout is the timeout for short pod exec calls, such as
	// configuration-store reads and pod lookups.
	K8sExecTimeout = 2 * time.Minute
)
