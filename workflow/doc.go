// Copyright 2025 Poiesic Systems
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

// Package workflow drives documents through per-type stage graphs.
//
// Each document type maps to a Definition: a data-driven stage graph with a
// transition table, approval-gated stages, and automation rules keyed by
// the stage that triggers them. The transition law holds for every
// definition: CanTransition(from, to) is true exactly when to is in
// NextStages(from).
//
// Automation rules fire when a document enters a stage. Their conditions
// and actions are closed tagged unions, so a rule set can be checked
// exhaustively at compile time. Create and advance actions can cascade;
// cascades are cut off at MaxCascadeDepth and the skipped rules logged.
package workflow
