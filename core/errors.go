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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidRelationship indicates a Relationship failed validation.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrInvalidWorkflowState indicates a WorkflowState failed validation.
	ErrInvalidWorkflowState = errors.New("invalid workflow state")

	// ErrInvalidDocumentType indicates an unknown DocumentType value.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrInvalidRelationshipType indicates an unknown RelationshipType value.
	ErrInvalidRelationshipType = errors.New("invalid relationship type")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyProjectId indicates the ProjectId field is empty.
	ErrEmptyProjectId = errors.New("project id cannot be empty")

	// ErrSelfRelationship indicates a relationship from a document to itself.
	ErrSelfRelationship = errors.New("relationship cannot reference its own source")

	// ErrStrengthOutOfRange indicates a relationship strength outside [0,1].
	ErrStrengthOutOfRange = errors.New("strength must be in [0,1]")

	// ErrInvalidCompletion indicates a completion percentage outside [0,100].
	ErrInvalidCompletion = errors.New("completion percentage must be in [0,100]")

	// ErrEmptyStage indicates an empty workflow stage name.
	ErrEmptyStage = errors.New("stage cannot be empty")

	// ErrEmptyWorkflowName indicates an empty workflow name.
	ErrEmptyWorkflowName = errors.New("workflow name cannot be empty")
)
