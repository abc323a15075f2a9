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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_MaxWidth(t *testing.T) {
	r := NewRunner()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "show gets max-width",
			in:   []string{"openstack", "server", "show", "vm-1"},
			want: []string{"openstack", "server", "show", "vm-1", "--max-width", "170"},
		},
		{
			name: "list gets max-width",
			in:   []string{"openstack", "port", "list", "--device-id", "vm-1"},
			want: []string{"openstack", "port", "list", "--device-id", "vm-1", "--max-width", "170"},
		},
		{
			name: "structured output opts out",
			in:   []string{"openstack", "server", "show", "vm-1", "-c", "image", "-f", "value"},
			want: []string{"openstack", "server", "show", "vm-1", "-c", "image", "-f", "value"},
		},
		{
			name: "explicit width respected",
			in:   []string{"openstack", "server", "show", "vm-1", "--max-width", "80"},
			want: []string{"openstack", "server", "show", "vm-1", "--max-width", "80"},
		},
		{
			name: "non list/show untouched",
			in:   []string{"openstack", "token", "issue"},
			want: []string{"openstack", "token", "issue"},
		},
		{
			name: "foreign command untouched",
			in:   []string{"echo", "show"},
			want: []string{"echo", "show"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.normalize(tc.in))
		})
	}
}

func TestNormalize_Insecure(t *testing.T) {
	r := NewRunner(WithInsecure(true), WithFitWidth(false))

	got := r.normalize([]string{"openstack", "server", "show", "vm-1"})
	assert.Equal(t, []string{"openstack", "--insecure", "server", "show", "vm-1"}, got)

	// Already present: not duplicated.
	got = r.normalize([]string{"openstack", "--insecure", "token", "issue"})
	assert.Equal(t, []string{"openstack", "--insecure", "token", "issue"}, got)
}

func TestNormalize_FitDisabled(t *testing.T) {
	r := NewRunner(WithFitWidth(false))
	got := r.normalize([]string{"openstack", "server", "show", "vm-1"})
	assert.Equal(t, []string{"openstack", "server", "show", "vm-1"}, got)
}

func TestRun_Success(t *testing.T) {
	r := NewRunner()
	res := r.Run(context.Background(), "echo", "hello")
	assert.True(t, res.OK())
	assert.Equal(t, "hello", res.Output)
	assert.Equal(t, "echo hello", res.Cmd)
}

func TestRun_Failure(t *testing.T) {
	r := NewRunner()
	res := r.Run(context.Background(), "false")
	assert.False(t, res.OK())
	// Failure cause is never empty.
	assert.NotEmpty(t, res.Output)
}

func TestRun_MissingBinary(t *testing.T) {
	r := NewRunner()
	res := r.Run(context.Background(), "definitely-not-a-real-binary-xyz")
	assert.False(t, res.OK())
	assert.NotEmpty(t, res.Output)
}

func TestRun_NoArgs(t *testing.T) {
	r := NewRunner()
	res := r.Run(context.Background())
	assert.False(t, res.OK())
	assert.NotEmpty(t, res.Output)
}

func TestRun_RateLimitBoundsCallRate(t *testing.T) {
	// 20 queries/sec with burst 1: the second and third call each wait
	// 50ms for a token.
	r := NewRunner(WithRateLimit(20, 1))

	start := time.Now()
	for range 3 {
		res := r.Run(context.Background(), "echo", "x")
		require.True(t, res.OK())
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRun_RateLimitCancelledContext(t *testing.T) {
	r := NewRunner(WithRateLimit(1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The token wait observes the cancelled context and fails without
	// executing anything.
	res := r.Run(ctx, "echo", "x")
	assert.False(t, res.OK())
	assert.NotEmpty(t, res.Output)
}
