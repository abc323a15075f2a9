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

// Package collect implements the dependency-traversal and collection
// engine.
//
// Given root resource references, the Engine walks a fixed dependency
// graph depth-first and captures each resource's state as a
// provenance-headed artifact:
//
//	vm     -> image, flavor, ports, volumes, project
//	port   -> network, security groups (with rules)
//	network-> subnets
//	volume -> attachments; as a root, back-edge to the attached vm
//	stack  -> stack resources, project
//	user   -> project
//
// Project quota is terminal and deduplicated through the run Context.
// Every branch produces a BranchResult; failures are confined to their
// branch and never abort sibling or ancestor work. The only fatal
// condition is the authentication pre-flight.
package collect
