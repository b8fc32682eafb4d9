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

package docflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/relationship"
	"github.com/poiesic/docflow/search"
	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/workflow"
)

// maxSearchCandidates bounds the in-memory snapshot handed to the search
// engine per query.
const maxSearchCandidates = 1000

// CreateOptions control side effects of creating a document.
type CreateOptions struct {
	// AutoGenerateRelationships derives relationship edges for the new
	// document. Failures are logged, not returned.
	AutoGenerateRelationships bool

	// StartWorkflow places the new document at the start of its workflow.
	// WorkflowName and InitialStage default from the document type.
	StartWorkflow bool
	WorkflowName  string
	InitialStage  string

	// GenerateSearchIndex is an extension point for external index
	// maintenance. The manager records the request; no index is built here.
	GenerateSearchIndex bool
}

// UpdateOptions control side effects of updating a document.
type UpdateOptions struct {
	// RegenerateRelationships forces edge regeneration even when the
	// content is unchanged. Content changes always regenerate.
	RegenerateRelationships bool
}

// Page selects a slice of a ranked or filtered result set.
type Page struct {
	Limit  int
	Offset int
}

// QueryResult is a page of documents plus the pre-slice total.
type QueryResult struct {
	Documents []*core.Document
	Total     int
	HasMore   bool
}

// SearchOptions narrow and paginate a document search.
type SearchOptions struct {
	ProjectId string
	Type      core.DocumentType
	Strategy  search.Strategy
	Limit     int
	Offset    int

	// Monitor receives ranking hooks for this search. Nil disables them.
	Monitor search.Monitor
}

// DocumentManager orchestrates document persistence, relationship
// generation, search, and workflow automation behind one contract.
//
// Relationship and search-index side effects are best-effort: their
// failures are logged and the document operation still succeeds. Workflow
// transition failures are fatal and propagate to the caller.
type DocumentManager struct {
	documents     storage.DocumentRepository
	relationships storage.RelationshipRepository
	states        storage.WorkflowStateRepository
	relEngine     *relationship.Engine
	wfEngine      *workflow.Engine
	searchEngine  *search.Engine
	events        *subscriptions
	logger        *slog.Logger
}

var _ workflow.DocumentCreator = (*DocumentManager)(nil)

// ManagerOption configures a DocumentManager.
type ManagerOption func(*DocumentManager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *DocumentManager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewDocumentManager creates a manager over the three repositories.
func NewDocumentManager(
	documents storage.DocumentRepository,
	relationships storage.RelationshipRepository,
	states storage.WorkflowStateRepository,
	opts ...ManagerOption,
) (*DocumentManager, error) {
	m := &DocumentManager{
		documents:     documents,
		relationships: relationships,
		states:        states,
		events:        newSubscriptions(),
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	relEngine, err := relationship.NewEngine(documents, relationships,
		relationship.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}
	m.relEngine = relEngine

	wfEngine, err := workflow.NewEngine(states, documents,
		workflow.WithLogger(m.logger),
		workflow.WithCreator(m),
		workflow.WithRelationshipGenerator(relEngine),
		workflow.WithRelationshipRepository(relationships))
	if err != nil {
		return nil, err
	}
	m.wfEngine = wfEngine

	searchEngine, err := search.NewEngine(search.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}
	m.searchEngine = searchEngine

	return m, nil
}

// Subscribe registers a callback invoked synchronously on every document
// change made through this manager. The returned function removes the
// subscription.
func (m *DocumentManager) Subscribe(fn func(ChangeEvent)) func() {
	return m.events.subscribe(fn)
}

// CreateDocument validates and persists a document, then runs the requested
// side effects. Relationship and search-index failures are logged and do
// not fail the create; a workflow start failure does.
func (m *DocumentManager) CreateDocument(ctx context.Context, doc *core.Document, opts CreateOptions) (*core.Document, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	added, err := m.documents.AddDocuments(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc = added[0]

	if opts.AutoGenerateRelationships {
		if _, relErr := m.relEngine.GenerateRelationships(ctx, doc); relErr != nil {
			m.logger.Error("error generating relationships",
				"document", doc.Id,
				"err", relErr)
		}
	}

	if opts.GenerateSearchIndex {
		m.logger.Debug("search index generation requested", "document", doc.Id)
	}

	if opts.StartWorkflow {
		if _, wfErr := m.wfEngine.StartWorkflow(ctx, doc, opts.WorkflowName, opts.InitialStage); wfErr != nil {
			return nil, wfErr
		}
		m.events.notify(ChangeEvent{
			Type:     ChangeWorkflowStarted,
			Document: doc,
			At:       time.Now().UTC(),
		})
	}

	m.events.notify(ChangeEvent{Type: ChangeCreated, Document: doc, At: time.Now().UTC()})
	return doc, nil
}

// CreateGeneratedDocument persists a document produced by workflow
// automation, starts its workflow, and records a generates edge back to the
// source document.
func (m *DocumentManager) CreateGeneratedDocument(ctx context.Context, source, generated *core.Document) (*core.Document, error) {
	created, err := m.CreateDocument(ctx, generated, CreateOptions{
		AutoGenerateRelationships: true,
		StartWorkflow:             true,
	})
	if err != nil {
		return nil, err
	}

	edge := &core.Relationship{
		Id: core.RelationshipID(source.Id, created.Id,
			core.RelationshipGenerates, core.MethodWorkflowRule),
		SourceDocumentId: source.Id,
		TargetDocumentId: created.Id,
		Type:             core.RelationshipGenerates,
		Strength:         1.0,
		AutoGenerated:    true,
		Metadata: map[string]string{
			core.MetadataGenerationMethod: string(core.MethodWorkflowRule),
		},
	}
	if _, relErr := m.relationships.AddRelationships(ctx, edge); relErr != nil {
		m.logger.Error("error recording generates edge",
			"source", source.Id,
			"target", created.Id,
			"err", relErr)
	}

	return created, nil
}

// GetDocument retrieves a document by ID.
func (m *DocumentManager) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	return m.documents.GetDocument(ctx, id)
}

// GetWorkflowState retrieves the workflow state for a document.
func (m *DocumentManager) GetWorkflowState(ctx context.Context, id string) (*core.WorkflowState, error) {
	return m.states.GetWorkflowState(ctx, id)
}

// UpdateDocument persists changes to a document. When the content changed,
// or when forced by options, relationship edges are regenerated
// best-effort.
func (m *DocumentManager) UpdateDocument(ctx context.Context, doc *core.Document, opts UpdateOptions) (*core.Document, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	old, err := m.documents.GetDocument(ctx, doc.Id)
	if err != nil {
		return nil, err
	}

	updated, err := m.documents.UpdateDocuments(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc = updated[0]

	if opts.RegenerateRelationships || old.Checksum != doc.Checksum {
		if _, relErr := m.relEngine.GenerateRelationships(ctx, doc); relErr != nil {
			m.logger.Error("error regenerating relationships",
				"document", doc.Id,
				"err", relErr)
		}
	}

	m.events.notify(ChangeEvent{Type: ChangeUpdated, Document: doc, At: time.Now().UTC()})
	return doc, nil
}

// DeleteDocument removes a document and everything attached to it: edges in
// both directions, workflow state, then the document itself, in a single
// transaction.
func (m *DocumentManager) DeleteDocument(ctx context.Context, id string) error {
	doc, err := m.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	err = m.documents.WithTransaction(ctx, func(ctx context.Context) error {
		if err := m.relationships.DeleteForDocument(ctx, id); err != nil {
			return err
		}
		if err := m.states.DeleteWorkflowState(ctx, id); err != nil {
			return err
		}
		return m.documents.DeleteDocuments(ctx, id)
	})
	if err != nil {
		return err
	}

	m.events.notify(ChangeEvent{Type: ChangeDeleted, Document: doc, At: time.Now().UTC()})
	return nil
}

// QueryDocuments returns a page of documents matching the filter. Total and
// HasMore are computed against the full match set, not the page.
func (m *DocumentManager) QueryDocuments(ctx context.Context, filter storage.DocumentFilter, page Page) (*QueryResult, error) {
	matches, err := m.documents.FindDocuments(ctx, filter, 0)
	if err != nil {
		return nil, err
	}

	total := len(matches)

	start := page.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}

	end := total
	if page.Limit > 0 && start+page.Limit < end {
		end = start + page.Limit
	}

	return &QueryResult{
		Documents: matches[start:end],
		Total:     total,
		HasMore:   end < total,
	}, nil
}

// SearchDocuments ranks documents against the query using the selected
// strategy. Candidates are narrowed by project and type first, capped at a
// fixed snapshot size.
func (m *DocumentManager) SearchDocuments(ctx context.Context, query string, opts SearchOptions) (*search.Result, error) {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = search.StrategyCombined
	}

	candidates, err := m.documents.FindDocuments(ctx, storage.DocumentFilter{
		ProjectId: opts.ProjectId,
		Type:      opts.Type,
	}, maxSearchCandidates)
	if err != nil {
		return nil, err
	}

	return m.searchEngine.SearchWithMonitor(candidates, query, strategy, search.Options{
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}, opts.Monitor)
}

// StartDocumentWorkflow starts a workflow for an existing document.
func (m *DocumentManager) StartDocumentWorkflow(ctx context.Context, id, workflowName, initialStage string) (*core.WorkflowState, error) {
	doc, err := m.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	state, err := m.wfEngine.StartWorkflow(ctx, doc, workflowName, initialStage)
	if err != nil {
		return nil, err
	}

	m.events.notify(ChangeEvent{
		Type:     ChangeWorkflowStarted,
		Document: doc,
		Stage:    state.CurrentStage,
		At:       time.Now().UTC(),
	})
	return state, nil
}

// AdvanceDocumentWorkflow moves a document's workflow to nextStage, merging
// results into the state. An unreachable stage fails with
// workflow.ErrInvalidTransition and persists nothing.
func (m *DocumentManager) AdvanceDocumentWorkflow(ctx context.Context, id, nextStage string, results map[string]string) (*core.WorkflowState, error) {
	doc, err := m.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	state, err := m.wfEngine.Advance(ctx, doc, nextStage, results)
	if err != nil {
		return nil, err
	}

	m.events.notify(ChangeEvent{
		Type:     ChangeWorkflowAdvanced,
		Document: doc,
		Stage:    state.CurrentStage,
		At:       time.Now().UTC(),
	})
	return state, nil
}

// CheckAndTriggerWorkflowAutomation re-evaluates automation rules for a
// document's current stage.
func (m *DocumentManager) CheckAndTriggerWorkflowAutomation(ctx context.Context, id string) error {
	doc, err := m.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	return m.wfEngine.RunAutomation(ctx, doc)
}

// GetRelationships returns the edges sourced at a document.
func (m *DocumentManager) GetRelationships(ctx context.Context, id string) ([]*core.Relationship, error) {
	return m.relationships.GetRelationshipsBySource(ctx, id)
}

// RegenerateRelationships rebuilds a document's auto-generated edges.
func (m *DocumentManager) RegenerateRelationships(ctx context.Context, id string) ([]*core.Relationship, error) {
	doc, err := m.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.relEngine.GenerateRelationships(ctx, doc)
}

// NewRelinker builds a bulk relationship regenerator sharing this manager's
// engine.
func (m *DocumentManager) NewRelinker(opts ...relationship.RelinkerOption) (*relationship.Relinker, error) {
	return relationship.NewRelinker(m.relEngine, m.documents, opts...)
}
