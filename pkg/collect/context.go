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
	"sync"

	"github.com/google/uuid"

	"github.com/pcd-tools/pcdebug/pkg/openstack"
)

// Context carries the per-run collection state: the output location, the
// TLS-bypass and fit-width toggles, and the set of projects whose quota
// has already been captured. One Context exists per invocation and is
// discarded at the end; it is never persisted.
type Context struct {
	// RunID uniquely identifies this collection run in logs.
	RunID string
	// OutputDir is the root output directory.
	OutputDir string
	// Insecure bypasses TLS verification on cloud-platform queries.
	Insecure bool
	// FitWidth appends the maximum-output-width option to table queries.
	FitWidth bool

	mu             sync.Mutex
	quotaCollected map[string]struct{}
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithInsecure sets the TLS-bypass toggle.
func WithInsecure(insecure bool) ContextOption {
	return func(c *Context) {
		c.Insecure = insecure
	}
}

// WithFitWidth sets the fit-output-width toggle.
func WithFitWidth(fit bool) ContextOption {
	return func(c *Context) {
		c.FitWidth = fit
	}
}

// NewContext creates the per-run collection context.
func NewContext(outputDir string, opts ...ContextOption) *Context {
	c := &Context{
		RunID:          uuid.NewString(),
		OutputDir:      outputDir,
		FitWidth:       true,
		quotaCollected: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunnerOptions translates the context's query toggles into executor
// options. The Context is the single source of truth for Insecure and
// FitWidth; runners are always configured through this method.
func (c *Context) RunnerOptions() []openstack.Option {
	return []openstack.Option{
		openstack.WithInsecure(c.Insecure),
		openstack.WithFitWidth(c.FitWidth),
	}
}

// AlreadyCollected reports whether the project's quota was captured in
// this run.
func (c *Context) AlreadyCollected(projectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.quotaCollected[projectID]
	return ok
}

// MarkCollected records the project as quota-collected. Returns true on
// the first mark for the project, false if it was already recorded; the
// at-most-once quota invariant hangs off this return value.
func (c *Context) MarkCollected(projectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.quotaCollected[projectID]; ok {
		return false
	}
	c.quotaCollected[projectID] = struct{}{}
	return true
}
