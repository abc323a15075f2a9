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

// Package logging wraps the standard library slog package with pcdebug
// defaults: structured JSON output to stderr, module/version context on
// every record, LOG_LEVEL environment configuration, and source location
// tracking for debug logs.
//
// Typical usage from main:
//
//	logging.SetDefaultStructuredLoggerWithLevel("pcdebug", version, logLevel)
//	slog.Info("collection started", "output", outDir)
//
// Supported levels (case-insensitive): debug, info, warn/warning, error.
// Unknown values fall back to info.
package logging
