/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script implements the text/tree round-trip engine for the visual
// editor: a line-oriented parser for the indentation-sensitive script
// language, a generator emitting canonically formatted text, and the
// synchronizer mutation API the editor uses to splice nodes into a live tree.
//
// The binding contract is the round-trip law: re-parsing generated text yields
// an equivalent tree, and formatting is idempotent. Parsing never fails;
// constructs outside the supported grammar are preserved verbatim as Raw
// nodes so user files the editor cannot interpret still survive a save.
package script
