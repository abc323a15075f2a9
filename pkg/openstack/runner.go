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
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pcd-tools/pcdebug/pkg/defaults"
)

// CommandName is the cloud-platform CLI the runner normalizes arguments for.
const CommandName = "openstack"

// defaultMaxWidth keeps table output from truncating fields that are
// parsed line-by-line later.
const defaultMaxWidth = 170

// Status indicates whether a query succeeded.
type Status string

const (
	// StatusOK indicates the query completed with exit code zero.
	StatusOK Status = "ok"
	// StatusFailed indicates a non-zero exit or failure to start.
	StatusFailed Status = "failed"
)

// QueryResult captures the outcome of one external query. On failure,
// Output always carries a non-empty human-readable cause.
type QueryResult struct {
	// Cmd is the exact command string that was executed, after
	// normalization. Recorded as artifact provenance.
	Cmd string
	// Output is trimmed stdout on success, or the failure cause on error.
	Output string
	// Status is StatusOK or StatusFailed.
	Status Status
}

// OK reports whether the query succeeded.
func (r QueryResult) OK() bool {
	return r.Status == StatusOK
}

// Empty reports whether the query succeeded but produced no output.
func (r QueryResult) Empty() bool {
	return strings.TrimSpace(r.Output) == ""
}

// Runner executes one external query and returns its output. Failures are
// captured in the result; Run never panics past this boundary.
type Runner interface {
	Run(ctx context.Context, args ...string) QueryResult
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithInsecure bypasses TLS verification on cloud-platform commands by
// inserting --insecure after the command name.
func WithInsecure(insecure bool) Option {
	return func(r *ExecRunner) {
		r.insecure = insecure
	}
}

// WithFitWidth toggles the automatic --max-width rendering option on
// list/show commands. Enabled by default.
func WithFitWidth(fit bool) Option {
	return func(r *ExecRunner) {
		r.fitWidth = fit
	}
}

// WithMaxWidth overrides the width appended to list/show commands.
func WithMaxWidth(width int) Option {
	return func(r *ExecRunner) {
		r.maxWidth = width
	}
}

// WithTimeout overrides the per-query timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = timeout
	}
}

// WithRateLimit bounds the query rate to protect the control plane from
// collection bursts.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(r *ExecRunner) {
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// ExecRunner runs queries as external processes.
type ExecRunner struct {
	insecure bool
	fitWidth bool
	maxWidth int
	timeout  time.Duration
	limiter  *rate.Limiter
}

// NewRunner creates an ExecRunner with default settings.
func NewRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		fitWidth: true,
		maxWidth: defaultMaxWidth,
		timeout:  defaults.QueryTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a single query. The exact command string is logged before
// execution for operator traceability. A non-zero exit is returned as a
// failed result carrying the process's error stream.
func (r *ExecRunner) Run(ctx context.Context, args ...string) QueryResult {
	if len(args) == 0 {
		return QueryResult{Output: "no command given", Status: StatusFailed}
	}

	args = r.normalize(args)
	cmdStr := strings.Join(args, " ")

	slog.Info("running command", "cmd", cmdStr)

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return QueryResult{Cmd: cmdStr, Output: err.Error(), Status: StatusFailed}
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cause := strings.TrimSpace(stderr.String())
		if cause == "" {
			cause = err.Error()
		}
		slog.Error("command failed", "cmd", cmdStr, "cause", cause)
		return QueryResult{Cmd: cmdStr, Output: cause, Status: StatusFailed}
	}

	return QueryResult{
		Cmd:    cmdStr,
		Output: strings.TrimSpace(stdout.String()),
		Status: StatusOK,
	}
}

// normalize rewrites cloud-platform invocations so table output stays
// parseable: --insecure is inserted when TLS bypass is requested, and
// list/show commands get --max-width unless the caller asked for
// structured output or set a width already.
func (r *ExecRunner) normalize(args []string) []string {
	if len(args) == 0 || args[0] != CommandName {
		return args
	}

	out := slices.Clone(args)

	if r.insecure && !slices.Contains(out, "--insecure") {
		out = slices.Insert(out, 1, "--insecure")
	}

	if r.fitWidth && isListOrShow(out) && !hasFormatSelector(out) && !slices.Contains(out, "--max-width") {
		out = append(out, "--max-width", strconv.Itoa(r.maxWidth))
	}

	return out
}

func isListOrShow(args []string) bool {
	for _, a := range args {
		if a == "list" || a == "show" {
			return true
		}
	}
	return false
}

func hasFormatSelector(args []string) bool {
	for _, a := range args {
		if a == "-f" || a == "--format" {
			return true
		}
	}
	return false
}
