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

package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipDir(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "pcdebug-20250101-120000")

	require.NoError(t, os.MkdirAll(filepath.Join(out, "health"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "health", "hypervisors.txt"), []byte("hv table"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "report.txt"), []byte("summary"), 0o644))

	zipPath, err := ZipDir(out)
	require.NoError(t, err)
	assert.Equal(t, out+".zip", zipPath)

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()

	// Entries are rooted at the directory name.
	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = string(data)
	}

	assert.Equal(t, map[string]string{
		"pcdebug-20250101-120000/health/hypervisors.txt": "hv table",
		"pcdebug-20250101-120000/report.txt":             "summary",
	}, contents)
}

func TestZipDir_MissingDirectory(t *testing.T) {
	_, err := ZipDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
