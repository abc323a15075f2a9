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

// Package cli implements the command-line interface for the pcdebug
// diagnostic collector.
//
// # Commands
//
// collect - Gather diagnostic artifacts around root resources:
//
//	pcdebug collect --vm VM_ID [--volume VOL_ID ...] [--output DIR] [--archive]
//
// Traverses the dependency graph of each requested root and writes one
// provenance-headed text file per captured query, grouped into domain
// subdirectories (vm-domain, network-domain, storage-domain, and so on).
// A control-plane health snapshot is captured once per invocation.
//
// db-dump - Extract the control-plane database:
//
//	pcdebug db-dump --namespace NS [--kubeconfig PATH] [--output DIR]
//
// Streams a gzip-compressed mysqldump of all databases out of the
// management cluster.
//
// # Exit codes
//
// The collector is built for best-effort capture: individual query or
// branch failures are logged and recorded, and the process still exits
// zero. Non-zero exits are reserved for unusable invocations, namely a
// failed authentication pre-flight and missing required flags.
package cli
