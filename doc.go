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

// Package docflow manages typed project documents with automatic
// relationship discovery, lexical search, and workflow automation.
//
// A Database owns the storage backend and repositories. A DocumentManager
// orchestrates the engines on top of them:
//
//	db, err := docflow.Open("project.db")
//	if err != nil { ... }
//	defer db.Close()
//
//	manager, err := db.NewManager()
//	if err != nil { ... }
//
//	doc, err := manager.CreateDocument(ctx, &core.Document{
//		Type:      core.DocumentTypePRD,
//		Title:     "Billing PRD",
//		ProjectId: "billing",
//	}, docflow.CreateOptions{
//		AutoGenerateRelationships: true,
//		StartWorkflow:             true,
//	})
//
// Advancing a document's workflow can trigger automation: approving a PRD
// creates an Epic, grooming an Epic creates a Feature, approving a Feature
// creates a Task. Generated documents carry a generates relationship edge
// back to their source.
package docflow
