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
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pcd-tools/pcdebug/pkg/openstack"
	"github.com/pcd-tools/pcdebug/pkg/sink"
)

// fakeRunner returns scripted results keyed by the exact command string.
// Unscripted commands succeed with empty output, which downstream parsers
// treat as a soft-miss. Safe for concurrent use (the health battery runs
// its checks in parallel).
type fakeRunner struct {
	mu        sync.Mutex
	responses map[string]openstack.QueryResult
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: make(map[string]openstack.QueryResult)}
}

func (f *fakeRunner) script(cmd, output string) {
	f.responses[cmd] = openstack.QueryResult{Output: output, Status: openstack.StatusOK}
}

func (f *fakeRunner) scriptFail(cmd, cause string) {
	f.responses[cmd] = openstack.QueryResult{Output: cause, Status: openstack.StatusFailed}
}

func (f *fakeRunner) Run(_ context.Context, args ...string) openstack.QueryResult {
	cmd := strings.Join(args, " ")

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	res, scripted := f.responses[cmd]
	f.mu.Unlock()

	if !scripted {
		res = openstack.QueryResult{Status: openstack.StatusOK}
	}
	res.Cmd = cmd
	return res
}

// count returns how many times the exact command was executed.
func (f *fakeRunner) count(cmd string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == cmd {
			n++
		}
	}
	return n
}

// countPrefix returns how many executed commands start with the prefix.
func (f *fakeRunner) countPrefix(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T) (*Engine, *fakeRunner, string) {
	t.Helper()

	dir := t.TempDir()
	s, err := sink.NewDirSink(dir)
	require.NoError(t, err)

	run := newFakeRunner()
	return NewEngine(run, s, NewContext(dir)), run, s.Root()
}

func setAuthEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OS_AUTH_URL", "https://keystone.example:5000/v3")
	t.Setenv("OS_USERNAME", "admin")
	t.Setenv("OS_PROJECT_NAME", "service")
}
