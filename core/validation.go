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

import (
	"fmt"
	"slices"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Type must be one of the nine document types
//   - Title must not be empty
//   - ProjectId must not be empty
//   - CompletionPercentage must be in [0,100]
//
// NOT validated (populated by the manager):
//   - Id (empty means "assign on create")
//   - Checksum (recomputed from content on every write)
//   - timestamps
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if err := ValidateDocumentType(doc.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if doc.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}

	if doc.ProjectId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyProjectId)
	}

	if doc.CompletionPercentage < 0 || doc.CompletionPercentage > 100 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidCompletion)
	}

	return nil
}

// ValidateDocumentType validates that a DocumentType has a known value.
func ValidateDocumentType(t DocumentType) error {
	if !slices.Contains(DocumentTypes, t) {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentType, t)
	}
	return nil
}

// ValidateRelationship validates a Relationship according to domain rules.
//
// Validation rules:
//   - Type must be relates_to or generates
//   - Source and target must differ (no self-loops)
//   - Strength must be in [0,1]
func ValidateRelationship(rel *Relationship) error {
	if rel == nil {
		return fmt.Errorf("%w: relationship is nil", ErrInvalidRelationship)
	}

	if rel.Type != RelationshipRelatesTo && rel.Type != RelationshipGenerates {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRelationship, ErrInvalidRelationshipType, rel.Type)
	}

	if rel.SourceDocumentId == rel.TargetDocumentId {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrSelfRelationship)
	}

	if rel.Strength < 0 || rel.Strength > 1 {
		return fmt.Errorf("%w: %w: %f", ErrInvalidRelationship, ErrStrengthOutOfRange, rel.Strength)
	}

	return nil
}

// ValidateWorkflowState validates a WorkflowState according to domain rules.
//
// Stage membership against the owning workflow definition is checked by the
// workflow engine, which knows the definition; this validates shape only.
func ValidateWorkflowState(state *WorkflowState) error {
	if state == nil {
		return fmt.Errorf("%w: state is nil", ErrInvalidWorkflowState)
	}

	if state.DocumentId == "" {
		return fmt.Errorf("%w: document id cannot be empty", ErrInvalidWorkflowState)
	}

	if state.WorkflowName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidWorkflowState, ErrEmptyWorkflowName)
	}

	if state.CurrentStage == "" {
		return fmt.Errorf("%w: %w", ErrInvalidWorkflowState, ErrEmptyStage)
	}

	return nil
}

// ClampStrength clamps a raw strength score into [0,1].
func ClampStrength(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
