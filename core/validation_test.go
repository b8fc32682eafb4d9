package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				Type:      DocumentTypePRD,
				Title:     "Payments PRD",
				ProjectId: "proj-1",
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "unknown type",
			doc: &Document{
				Type:      DocumentType("memo"),
				Title:     "Memo",
				ProjectId: "proj-1",
			},
			wantErr: ErrInvalidDocumentType,
		},
		{
			name: "empty title",
			doc: &Document{
				Type:      DocumentTypeTask,
				ProjectId: "proj-1",
			},
			wantErr: ErrEmptyTitle,
		},
		{
			name: "empty project",
			doc: &Document{
				Type:  DocumentTypeTask,
				Title: "A task",
			},
			wantErr: ErrEmptyProjectId,
		},
		{
			name: "completion over 100",
			doc: &Document{
				Type:                 DocumentTypeTask,
				Title:                "A task",
				ProjectId:            "proj-1",
				CompletionPercentage: 150,
			},
			wantErr: ErrInvalidCompletion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelationship(t *testing.T) {
	tests := []struct {
		name    string
		rel     *Relationship
		wantErr error
	}{
		{
			name: "valid relationship",
			rel: &Relationship{
				SourceDocumentId: "a",
				TargetDocumentId: "b",
				Type:             RelationshipRelatesTo,
				Strength:         0.5,
			},
			wantErr: nil,
		},
		{
			name:    "nil relationship",
			rel:     nil,
			wantErr: ErrInvalidRelationship,
		},
		{
			name: "self loop",
			rel: &Relationship{
				SourceDocumentId: "a",
				TargetDocumentId: "a",
				Type:             RelationshipGenerates,
			},
			wantErr: ErrSelfRelationship,
		},
		{
			name: "unknown type",
			rel: &Relationship{
				SourceDocumentId: "a",
				TargetDocumentId: "b",
				Type:             RelationshipType("references"),
			},
			wantErr: ErrInvalidRelationshipType,
		},
		{
			name: "strength above one",
			rel: &Relationship{
				SourceDocumentId: "a",
				TargetDocumentId: "b",
				Type:             RelationshipRelatesTo,
				Strength:         1.2,
			},
			wantErr: ErrStrengthOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelationship(tt.rel)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRelationship() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRelationship() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWorkflowState(t *testing.T) {
	valid := &WorkflowState{
		DocumentId:   "doc-1",
		WorkflowName: "prd_workflow",
		CurrentStage: "draft",
	}
	if err := ValidateWorkflowState(valid); err != nil {
		t.Errorf("ValidateWorkflowState() unexpected error: %v", err)
	}

	if err := ValidateWorkflowState(nil); !errors.Is(err, ErrInvalidWorkflowState) {
		t.Errorf("ValidateWorkflowState(nil) error = %v", err)
	}

	noStage := &WorkflowState{DocumentId: "doc-1", WorkflowName: "prd_workflow"}
	if err := ValidateWorkflowState(noStage); !errors.Is(err, ErrEmptyStage) {
		t.Errorf("ValidateWorkflowState() error = %v, want %v", err, ErrEmptyStage)
	}
}

func TestClampStrength(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.3, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
	}

	for _, tt := range tests {
		if got := ClampStrength(tt.in); got != tt.want {
			t.Errorf("ClampStrength(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
