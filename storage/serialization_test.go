package storage

import (
	"testing"
	"time"

	"github.com/poiesic/docflow/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The serializers are hand-written, so each entity gets one full round trip
// exercising every field kind (strings, slices, map, bool, float, time).

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	doc := &core.Document{
		Id:                   "doc-1",
		Type:                 core.DocumentTypeFeature,
		Title:                "Search ranking",
		Content:              "Rank documents by relevance",
		Keywords:             []string{"search", "ranking"},
		Status:               "draft",
		Priority:             "high",
		Author:               "ana",
		ProjectId:            "proj-1",
		ParentDocumentId:     "epic-1",
		Dependencies:         []string{"doc-0"},
		RelatedDocuments:     []string{"doc-2", "doc-3"},
		Checksum:             core.ChecksumContent("Rank documents by relevance"),
		CompletionPercentage: 40,
		Metadata:             map[string]string{"source_document_id": "prd-1"},
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestRelationshipRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	rel := &core.Relationship{
		Id:               core.RelationshipID("a", "b", core.RelationshipRelatesTo, core.MethodKeywordAnalysis),
		SourceDocumentId: "a",
		TargetDocumentId: "b",
		Type:             core.RelationshipRelatesTo,
		Strength:         0.73,
		AutoGenerated:    true,
		Metadata:         map[string]string{core.MetadataGenerationMethod: string(core.MethodKeywordAnalysis)},
		CreatedAt:        now,
	}

	got, err := UnmarshalRelationship(MarshalRelationship(rel))
	require.NoError(t, err)
	assert.Equal(t, rel, got)
}

func TestWorkflowStateRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	state := &core.WorkflowState{
		DocumentId:         "doc-1",
		WorkflowName:       "feature_workflow",
		CurrentStage:       "implementation",
		StagesCompleted:    []string{"draft", "approved"},
		NextStages:         []string{"testing"},
		AutoTransitions:    true,
		RequiresApproval:   false,
		GeneratedArtifacts: []string{"checklist"},
		WorkflowResults:    map[string]string{"approved_by": "sam"},
		StartedAt:          now.Add(-time.Hour),
		UpdatedAt:          now,
	}

	got, err := UnmarshalWorkflowState(MarshalWorkflowState(state))
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestIDRoundTrip(t *testing.T) {
	id := core.IDFromContent("edge tuple")
	got, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
