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

package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const headerSeparatorWidth = 70

// Sink persists named artifacts under a root output directory. Paths are
// deterministic per resource; writing to an existing path overwrites it,
// which makes re-running a collection into the same directory idempotent.
type Sink interface {
	// SaveText writes a text artifact. When provenance is non-empty, a
	// two-line header naming the originating query is prepended.
	SaveText(payload, relPath, provenance string) error
	// SaveBinary writes a binary artifact verbatim, without a header.
	SaveBinary(data []byte, relPath string) error
	// Root returns the absolute output directory.
	Root() string
}

// DirSink writes artifacts to the local filesystem.
type DirSink struct {
	root string
}

// NewDirSink creates a sink rooted at dir, creating it if needed.
func NewDirSink(dir string) (*DirSink, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", abs, err)
	}
	return &DirSink{root: abs}, nil
}

// Root returns the absolute output directory.
func (s *DirSink) Root() string {
	return s.root
}

// SaveText writes a provenance-headed text artifact, creating intermediate
// directories as needed.
func (s *DirSink) SaveText(payload, relPath, provenance string) error {
	var b strings.Builder
	if provenance != "" {
		b.WriteString("# Command: ")
		b.WriteString(provenance)
		b.WriteString("\n# ")
		b.WriteString(strings.Repeat("-", headerSeparatorWidth))
		b.WriteString("\n\n")
	}
	b.WriteString(payload)

	return s.write([]byte(b.String()), relPath)
}

// SaveBinary writes a binary artifact verbatim.
func (s *DirSink) SaveBinary(data []byte, relPath string) error {
	return s.write(data, relPath)
}

func (s *DirSink) write(data []byte, relPath string) error {
	path := filepath.Join(s.root, relPath)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}
