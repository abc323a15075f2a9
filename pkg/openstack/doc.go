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

// Package openstack executes cloud-platform CLI queries and parses their
// output.
//
// The Runner normalizes invocations (TLS bypass, table width) and captures
// failures as values rather than errors: every query returns a QueryResult
// whose failure text carries the root cause for exactly one log line at
// the point of use.
//
// The parse functions absorb the instability of human-oriented table
// output. Each field shape has its own total function: single value,
// newline list, parenthetical identifier, Python-literal records, JSON
// field, and the two-form flavor rendering.
package openstack
