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

// Package relationship derives typed, weighted edges between documents.
//
// Three kinds of edges are generated:
//
//   - Hierarchy edges link a document to plausible parents of its allowed
//     parent types, scored by keyword overlap, matching priority and author,
//     and creation-time proximity.
//   - Semantic edges link documents in the same project whose keyword sets
//     overlap strongly, or where one document's content mentions another's
//     title.
//   - Workflow edges record that a document was created by another
//     document's workflow automation.
//
// All generated edges carry auto_generated=true and a generation_method
// metadata tag. Regeneration is idempotent: edge IDs are derived from edge
// content, so running it twice over unchanged documents yields the same set.
//
// The Relinker wraps the engine in a worker pool for bulk regeneration
// across a whole project.
package relationship
