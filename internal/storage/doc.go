/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage handles project persistence on disk.
//
// A project is a directory with a project.json manifest at its root, a game/
// directory holding the .rpy script files, and a .rve/ directory with derived
// data: the snapshot history database and manifest backups. The manifest is
// validated against an embedded JSON schema on both load and save so a corrupt
// or hand-edited file is reported before it can damage the project.
package storage
