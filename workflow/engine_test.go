package workflow

import (
	"context"
	"testing"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCreator records documents generated by automation.
type fakeCreator struct {
	created []*core.Document
}

func (f *fakeCreator) CreateGeneratedDocument(_ context.Context, _ *core.Document, generated *core.Document) (*core.Document, error) {
	if generated.Id == "" {
		generated.Id = core.NewDocumentID()
	}
	f.created = append(f.created, generated)
	return generated, nil
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, storage.DocumentRepository, storage.WorkflowStateRepository) {
	t.Helper()

	docs, _, states, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	engine, err := NewEngine(states, docs, opts...)
	require.NoError(t, err)

	return engine, docs, states
}

func addDocument(t *testing.T, repo storage.DocumentRepository, doc *core.Document) *core.Document {
	t.Helper()

	added, err := repo.AddDocuments(context.Background(), doc)
	require.NoError(t, err)
	return added[0]
}

func TestStartWorkflow(t *testing.T) {
	engine, docs, states := newTestEngine(t)
	ctx := context.Background()

	doc := addDocument(t, docs, &core.Document{Type: core.DocumentTypePRD, Title: "PRD", ProjectId: "proj"})

	t.Run("defaults from document type", func(t *testing.T) {
		state, err := engine.StartWorkflow(ctx, doc, "", "")
		require.NoError(t, err)

		assert.Equal(t, PRDWorkflow, state.WorkflowName)
		assert.Equal(t, "draft", state.CurrentStage)
		assert.Equal(t, []string{"review"}, state.NextStages)
		assert.False(t, state.RequiresApproval)
		assert.False(t, state.StartedAt.IsZero())

		stored, err := states.GetWorkflowState(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, "draft", stored.CurrentStage)
	})

	t.Run("explicit workflow and stage", func(t *testing.T) {
		state, err := engine.StartWorkflow(ctx, doc, DefaultWorkflow, "review")
		require.NoError(t, err)
		assert.Equal(t, DefaultWorkflow, state.WorkflowName)
		assert.Equal(t, "review", state.CurrentStage)
	})

	t.Run("unknown workflow", func(t *testing.T) {
		_, err := engine.StartWorkflow(ctx, doc, "release_workflow", "")
		assert.ErrorIs(t, err, ErrUnknownWorkflow)
	})

	t.Run("unknown stage", func(t *testing.T) {
		_, err := engine.StartWorkflow(ctx, doc, "", "shipped")
		assert.ErrorIs(t, err, ErrUnknownStage)
	})
}

func TestAdvance(t *testing.T) {
	engine, docs, states := newTestEngine(t)
	ctx := context.Background()

	doc := addDocument(t, docs, &core.Document{Type: core.DocumentTypeTask, Title: "Task", ProjectId: "proj"})
	_, err := engine.StartWorkflow(ctx, doc, "", "")
	require.NoError(t, err)

	state, err := engine.Advance(ctx, doc, "in_progress", map[string]string{"assignee": "ana"})
	require.NoError(t, err)

	assert.Equal(t, "in_progress", state.CurrentStage)
	assert.Equal(t, []string{"todo"}, state.StagesCompleted)
	assert.ElementsMatch(t, []string{"review", "done"}, state.NextStages)
	assert.Equal(t, "ana", state.WorkflowResults["assignee"])

	state, err = engine.Advance(ctx, doc, "done", map[string]string{"outcome": "merged"})
	require.NoError(t, err)

	assert.Equal(t, []string{"todo", "in_progress"}, state.StagesCompleted)
	assert.True(t, state.RequiresApproval)
	assert.Equal(t, "ana", state.WorkflowResults["assignee"], "results merge, not replace")
	assert.Equal(t, "merged", state.WorkflowResults["outcome"])

	stored, err := states.GetWorkflowState(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "done", stored.CurrentStage)
}

func TestAdvance_InvalidTransition(t *testing.T) {
	engine, docs, states := newTestEngine(t)
	ctx := context.Background()

	doc := addDocument(t, docs, &core.Document{Type: core.DocumentTypePRD, Title: "PRD", ProjectId: "proj"})
	_, err := engine.StartWorkflow(ctx, doc, "", "")
	require.NoError(t, err)

	_, err = engine.Advance(ctx, doc, "approved", nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Nothing persisted on a rejected transition.
	stored, err := states.GetWorkflowState(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "draft", stored.CurrentStage)
	assert.Empty(t, stored.StagesCompleted)
}

func TestAdvance_NoWorkflowState(t *testing.T) {
	engine, docs, _ := newTestEngine(t)
	ctx := context.Background()

	doc := addDocument(t, docs, &core.Document{Type: core.DocumentTypeTask, Title: "Task", ProjectId: "proj"})

	_, err := engine.Advance(ctx, doc, "in_progress", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAdvance_PRDApprovalAutomation(t *testing.T) {
	creator := &fakeCreator{}
	engine, docs, states := newTestEngine(t, WithCreator(creator))
	ctx := context.Background()

	prd := addDocument(t, docs, &core.Document{
		Type:      core.DocumentTypePRD,
		Title:     "Billing",
		ProjectId: "proj",
		Keywords:  []string{"billing", "invoices"},
		Author:    "ana",
	})
	_, err := engine.StartWorkflow(ctx, prd, "", "")
	require.NoError(t, err)

	_, err = engine.Advance(ctx, prd, "review", nil)
	require.NoError(t, err)
	assert.Empty(t, creator.created, "no automation before approval")

	_, err = engine.Advance(ctx, prd, "approved", nil)
	require.NoError(t, err)

	require.Len(t, creator.created, 1, "approval creates exactly one epic")
	epic := creator.created[0]
	assert.Equal(t, core.DocumentTypeEpic, epic.Type)
	assert.Equal(t, "Billing Epic", epic.Title)
	assert.Equal(t, "high", epic.Priority)
	assert.Equal(t, []string{"billing", "invoices"}, epic.Keywords)
	assert.Equal(t, prd.Id, epic.Metadata[core.MetadataSourceDocumentId])
	assert.Equal(t, "proj", epic.ProjectId)
	assert.Equal(t, "ana", epic.Author)

	state, err := states.GetWorkflowState(ctx, prd.Id)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{ArtifactSummaryReport, ArtifactChecklist, ArtifactStakeholderMatrix},
		state.GeneratedArtifacts)
}

func TestAdvance_EpicAndFeatureAutomation(t *testing.T) {
	creator := &fakeCreator{}
	engine, docs, _ := newTestEngine(t, WithCreator(creator))
	ctx := context.Background()

	epic := addDocument(t, docs, &core.Document{Type: core.DocumentTypeEpic, Title: "Billing", ProjectId: "proj"})
	_, err := engine.StartWorkflow(ctx, epic, "", "")
	require.NoError(t, err)
	_, err = engine.Advance(ctx, epic, "groomed", nil)
	require.NoError(t, err)

	require.Len(t, creator.created, 1)
	assert.Equal(t, core.DocumentTypeFeature, creator.created[0].Type)

	feature := addDocument(t, docs, &core.Document{Type: core.DocumentTypeFeature, Title: "Invoices", ProjectId: "proj"})
	_, err = engine.StartWorkflow(ctx, feature, "", "")
	require.NoError(t, err)
	_, err = engine.Advance(ctx, feature, "approved", nil)
	require.NoError(t, err)

	require.Len(t, creator.created, 2)
	assert.Equal(t, core.DocumentTypeTask, creator.created[1].Type)
}

func TestAdvance_CascadeDepthBound(t *testing.T) {
	creator := &fakeCreator{}
	engine, docs, _ := newTestEngine(t, WithCreator(creator))

	prd := addDocument(t, docs, &core.Document{Type: core.DocumentTypePRD, Title: "PRD", ProjectId: "proj"})
	ctx := context.Background()
	_, err := engine.StartWorkflow(ctx, prd, "", "")
	require.NoError(t, err)
	_, err = engine.Advance(ctx, prd, "review", nil)
	require.NoError(t, err)

	// At the cascade bound, create_document is skipped but the transition
	// itself still succeeds.
	deep := withCascadeDepth(ctx, MaxCascadeDepth)
	state, err := engine.Advance(deep, prd, "approved", nil)
	require.NoError(t, err)
	assert.Equal(t, "approved", state.CurrentStage)
	assert.Empty(t, creator.created)
}

func TestAdvance_AutomationWithoutCreator(t *testing.T) {
	engine, docs, _ := newTestEngine(t)
	ctx := context.Background()

	prd := addDocument(t, docs, &core.Document{Type: core.DocumentTypePRD, Title: "PRD", ProjectId: "proj"})
	_, err := engine.StartWorkflow(ctx, prd, "", "")
	require.NoError(t, err)
	_, err = engine.Advance(ctx, prd, "review", nil)
	require.NoError(t, err)

	// create_document without a creator is logged and skipped, not fatal.
	state, err := engine.Advance(ctx, prd, "approved", nil)
	require.NoError(t, err)
	assert.Equal(t, "approved", state.CurrentStage)
}

func TestRunAutomation(t *testing.T) {
	creator := &fakeCreator{}
	engine, docs, states := newTestEngine(t, WithCreator(creator))
	ctx := context.Background()

	prd := addDocument(t, docs, &core.Document{Type: core.DocumentTypePRD, Title: "PRD", ProjectId: "proj"})
	state, err := engine.StartWorkflow(ctx, prd, "", "")
	require.NoError(t, err)

	// Place the document directly in an automated stage, then re-run.
	state.CurrentStage = "approved"
	require.NoError(t, states.SaveWorkflowState(ctx, state))

	require.NoError(t, engine.RunAutomation(ctx, prd))
	assert.Len(t, creator.created, 1)
}

func TestCompareField(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		operator string
		value    string
		want     bool
	}{
		{"equals", "alpha", OpEquals, "alpha", true},
		{"not equals", "alpha", OpNotEquals, "beta", true},
		{"numeric greater", "10", OpGreaterThan, "9", true},
		{"numeric less", "2", OpLessThan, "10", true},
		{"lexical fallback", "beta", OpGreaterThan, "alpha", true},
		{"contains", "release notes", OpContains, "notes", true},
		{"starts with", "v2.1", OpStartsWith, "v2", true},
		{"ends with", "report.pdf", OpEndsWith, ".pdf", true},
		{"in", "beta", OpIn, "alpha, beta, gamma", true},
		{"not in", "delta", OpNotIn, "alpha, beta", true},
		{"unknown operator", "x", "matches", "x", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, compareField(tc.field, tc.operator, tc.value))
		})
	}
}

func TestConditions(t *testing.T) {
	engine, docs, _ := newTestEngine(t)
	ctx := context.Background()

	doc := addDocument(t, docs, &core.Document{
		Type:                 core.DocumentTypeFeature,
		Title:                "Feature",
		ProjectId:            "proj",
		Priority:             "high",
		CompletionPercentage: 60,
		Metadata:             map[string]string{"team": "payments"},
	})
	state, err := engine.StartWorkflow(ctx, doc, "", "")
	require.NoError(t, err)

	assert.True(t, engine.conditionMet(ctx, DocumentTypeIs{Type: core.DocumentTypeFeature}, doc, state))
	assert.False(t, engine.conditionMet(ctx, DocumentTypeIs{Type: core.DocumentTypeTask}, doc, state))
	assert.True(t, engine.conditionMet(ctx, PriorityLevel{Priority: "high"}, doc, state))
	assert.True(t, engine.conditionMet(ctx, CompletionAtLeast{Percentage: 50}, doc, state))
	assert.False(t, engine.conditionMet(ctx, CompletionAtLeast{Percentage: 90}, doc, state))
	assert.True(t, engine.conditionMet(ctx, StatusChange{Status: "draft"}, doc, state))
	assert.True(t, engine.conditionMet(ctx, CustomField{Field: "team", Operator: OpEquals, Value: "payments"}, doc, state))

	// No relationship repository configured: never holds.
	assert.False(t, engine.conditionMet(ctx, HasRelationships{Minimum: 0}, doc, state))
}
