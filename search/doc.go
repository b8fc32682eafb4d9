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


// Package search ranks document candidate sets under four strategies.
//
// The Engine scores a caller-supplied snapshot of documents against a free
// text query using one of:
//   - fulltext: TF-IDF over tokens with title/keyword boosts
//   - semantic: Jaccard similarity over synonym-expanded token sets blended
//     with 2/3-gram phrase similarity (a deterministic lexical heuristic,
//     not an embedding model)
//   - keyword: direct matches against the document keyword list
//   - combined: a weighted blend of all three
//
// Pagination is applied only after full ranking, and reported totals refer
// to the pre-slice ranking.
package search
