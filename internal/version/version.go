/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version exposes the application version for logging and reports.
package version

// Version is overridable at build time via -ldflags "-X ...version.Version=".
var Version = "0.4.0-dev"

// Commit is the VCS revision, when stamped by the build.
var Commit = ""

func String() string {
	if Commit != "" {
		return Version + "+" + Commit
	}
	return Version
}
