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
	"fmt"
	"log/slog"

	"github.com/pcd-tools/pcdebug/pkg/openstack"
	"github.com/pcd-tools/pcdebug/pkg/sink"
)

// Domain subdirectories of the output tree. Each holds one text file per
// captured artifact.
const (
	dirHealth        = "health"
	dirVM            = "vm-domain"
	dirNetwork       = "network-domain"
	dirStorage       = "storage-domain"
	dirOrchestration = "orchestration-domain"
	dirIdentity      = "identity-domain"
	dirQuota         = "quota"
)

// Roots holds the user-requested root resource identifiers. Any subset
// may be set; each non-empty field starts its own traversal.
type Roots struct {
	VM      string
	Image   string
	Network string
	Port    string
	Volume  string
	Stack   string
	User    string
}

// Any reports whether at least one root was requested.
func (r Roots) Any() bool {
	return r.VM != "" || r.Image != "" || r.Network != "" || r.Port != "" ||
		r.Volume != "" || r.Stack != "" || r.User != ""
}

// Engine orchestrates the dependency traversal. Given root resources it
// invokes the per-kind collectors, which recursively collect dependents.
// Each root collection is independent: a failure deep inside one branch
// is recorded and logged at the point of failure, and never aborts
// sibling branches or other roots.
type Engine struct {
	run    openstack.Runner
	sink   sink.Sink
	cctx   *Context
	report *Report
}

// NewEngine creates a traversal engine over the given runner and sink.
func NewEngine(run openstack.Runner, s sink.Sink, cctx *Context) *Engine {
	return &Engine{
		run:    run,
		sink:   s,
		cctx:   cctx,
		report: &Report{},
	}
}

// Report returns the accumulated branch results for the run.
func (e *Engine) Report() *Report {
	return e.report
}

// Run executes one collection run: authentication pre-flight (fatal on
// error), the health snapshot exactly once, then every requested root in
// the order of the original flag set. With no roots requested, Run does
// nothing and returns nil.
func (e *Engine) Run(ctx context.Context, roots Roots) error {
	if !roots.Any() {
		slog.Info("no root resources requested, skipping collection")
		return nil
	}

	if err := openstack.CheckAuth(ctx, e.run); err != nil {
		return err
	}

	e.CollectHealth(ctx)

	if roots.VM != "" {
		e.CollectVM(ctx, roots.VM)
	}
	if roots.Image != "" {
		e.CollectImage(ctx, roots.Image, "")
	}
	if roots.Network != "" {
		e.CollectNetwork(ctx, roots.Network)
	}
	if roots.Port != "" {
		e.CollectPort(ctx, roots.Port, false)
	}
	if roots.Volume != "" {
		e.CollectVolume(ctx, roots.Volume, false)
	}
	if roots.Stack != "" {
		e.CollectStack(ctx, roots.Stack)
	}
	if roots.User != "" {
		e.CollectUser(ctx, roots.User)
	}

	return nil
}

// save persists a successful query's output as a provenance-headed text
// artifact. Sink errors are logged, never propagated: a failed write must
// not abort the traversal.
func (e *Engine) save(res openstack.QueryResult, relPath string) {
	if err := e.sink.SaveText(res.Output, relPath, res.Cmd); err != nil {
		slog.Error("failed to save artifact", "path", relPath, "error", err)
	}
}

// failed records a query or parse failure for the branch. Exactly one log
// line names the failing operation and the root cause.
func (e *Engine) failed(ref ResourceRef, op, cause string) BranchResult {
	slog.Error("branch failed", "op", op, "resource", ref.String(), "cause", cause)
	br := BranchResult{
		Ref:     ref,
		Outcome: OutcomeFailed,
		Reason:  fmt.Sprintf("%s: %s", op, cause),
	}
	e.report.add(br)
	return br
}

// skipped records a soft-miss: an expected value's absence that is
// informational, not an error.
func (e *Engine) skipped(ref ResourceRef, reason string) BranchResult {
	slog.Info("branch skipped", "resource", ref.String(), "reason", reason)
	br := BranchResult{Ref: ref, Outcome: OutcomeSkipped, Reason: reason}
	e.report.add(br)
	return br
}

// collected records a completed branch.
func (e *Engine) collected(ref ResourceRef) BranchResult {
	br := BranchResult{Ref: ref, Outcome: OutcomeCollected}
	e.report.add(br)
	return br
}
