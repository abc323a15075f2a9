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
	"fmt"
	"sync"
)

// Kind identifies a resource kind in the dependency graph.
type Kind string

const (
	KindVM               Kind = "vm"
	KindImage            Kind = "image"
	KindFlavor           Kind = "flavor"
	KindNetwork          Kind = "network"
	KindSubnet           Kind = "subnet"
	KindPort             Kind = "port"
	KindSecurityGroup    Kind = "security_group"
	KindVolume           Kind = "volume"
	KindVolumeAttachment Kind = "volume_attachment"
	KindStack            Kind = "stack"
	KindStackResource    Kind = "stack_resource"
	KindUser             Kind = "user"
	KindProject          Kind = "project"
	KindHypervisor       Kind = "hypervisor"
)

// ResourceRef identifies one resource: a kind plus an opaque identifier
// (UUID or name). Uniqueness is scoped within the kind.
type ResourceRef struct {
	Kind Kind
	ID   string
}

// String returns the kind/id rendering used in logs and reports.
func (r ResourceRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}

// Outcome classifies the result of one collection branch.
type Outcome string

const (
	// OutcomeCollected means the branch's artifacts were written.
	OutcomeCollected Outcome = "collected"
	// OutcomeSkipped means an expected value was absent (soft-miss) and
	// the branch yielded no further expansion.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means a query or parse failed; the branch's further
	// expansion was abandoned, siblings unaffected.
	OutcomeFailed Outcome = "failed"
)

// BranchResult records the outcome of one collection branch, so callers
// and tests can assert on skip/failure outcomes without scraping logs.
type BranchResult struct {
	Ref     ResourceRef
	Outcome Outcome
	Reason  string
}

// Report accumulates branch results for a run. Safe for concurrent use.
type Report struct {
	mu       sync.Mutex
	branches []BranchResult
}

func (r *Report) add(br BranchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.branches = append(r.branches, br)
}

// Branches returns all recorded branch results in recording order.
func (r *Report) Branches() []BranchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BranchResult, len(r.branches))
	copy(out, r.branches)
	return out
}

// ByOutcome returns the branch results with the given outcome.
func (r *Report) ByOutcome(o Outcome) []BranchResult {
	var out []BranchResult
	for _, br := range r.Branches() {
		if br.Outcome == o {
			out = append(out, br)
		}
	}
	return out
}
