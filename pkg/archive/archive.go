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

// Package archive packs a collection output directory into a single
// zip file for transfer.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ZipDir compresses the directory at dir into a sibling zip file named
// <dir>.zip and returns its path. Entry names are relative to dir so the
// archive unpacks into a single folder. An existing archive at the
// target path is replaced.
func ZipDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	zipPath := abs + ".zip"
	out, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive %s: %w", zipPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	base := filepath.Base(abs)
	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(filepath.Join(base, rel)))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(w, f)
		return err
	})
	if walkErr != nil {
		zw.Close()
		return "", fmt.Errorf("failed to archive %s: %w", abs, walkErr)
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive %s: %w", zipPath, err)
	}
	return zipPath, nil
}
