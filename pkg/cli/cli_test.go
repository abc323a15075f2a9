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

package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOutputDir(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "pcdebug-20250314-092653", defaultOutputDir(at))
}

func TestCollect_NoRootsCreatesOutputDirOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "case-out")

	err := rootCmd().Run(context.Background(), []string{"pcdebug", "collect", "--output", out})
	require.NoError(t, err)

	// The directory exists and holds no artifacts.
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCollect_ArchiveFlagZipsOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "case-out")

	err := rootCmd().Run(context.Background(), []string{"pcdebug", "collect", "--output", out, "--archive"})
	require.NoError(t, err)

	_, err = os.Stat(out + ".zip")
	assert.NoError(t, err)
}

func TestDBDump_NamespaceRequired(t *testing.T) {
	err := rootCmd().Run(context.Background(), []string{"pcdebug", "db-dump"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "namespace")
}

func TestRootCmd_UnknownLogLevelStillRuns(t *testing.T) {
	out := filepath.Join(t.TempDir(), "case-out")

	// An unrecognized level falls back to the default rather than failing
	// the invocation.
	err := rootCmd().Run(context.Background(), []string{
		"pcdebug", "--log-level", "loud", "collect", "--output", out,
	})
	assert.NoError(t, err)
}
