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

package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// MaxCascadeDepth bounds chains of automation-triggered transitions and
// document creations stemming from one advance. Rules past the bound are
// logged and skipped, never failed.
const MaxCascadeDepth = 5

// DocumentCreator creates documents generated by workflow automation.
// Implementations persist the document, start its own workflow, and record
// a generates relationship edge back to the source document.
type DocumentCreator interface {
	CreateGeneratedDocument(ctx context.Context, source, generated *core.Document) (*core.Document, error)
}

// RelationshipGenerator regenerates a document's auto-generated
// relationship edges.
type RelationshipGenerator interface {
	GenerateRelationships(ctx context.Context, doc *core.Document) ([]*core.Relationship, error)
}

// Engine drives documents through their workflow stage graphs and runs
// automation rules on stage entry.
type Engine struct {
	states        storage.WorkflowStateRepository
	documents     storage.DocumentRepository
	relationships storage.RelationshipRepository
	creator       DocumentCreator
	regenerator   RelationshipGenerator
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithCreator sets the collaborator used by create_document actions.
// Without one, those actions are logged and skipped.
func WithCreator(creator DocumentCreator) Option {
	return func(e *Engine) error {
		e.creator = creator
		return nil
	}
}

// WithRelationshipGenerator sets the collaborator used by
// update_relationships actions. Without one, those actions are logged and
// skipped.
func WithRelationshipGenerator(regenerator RelationshipGenerator) Option {
	return func(e *Engine) error {
		e.regenerator = regenerator
		return nil
	}
}

// WithRelationshipRepository sets the repository used to evaluate
// has_relationships conditions. Without one, those conditions never hold.
func WithRelationshipRepository(relationships storage.RelationshipRepository) Option {
	return func(e *Engine) error {
		e.relationships = relationships
		return nil
	}
}

// NewEngine creates a new workflow engine.
func NewEngine(states storage.WorkflowStateRepository, documents storage.DocumentRepository, opts ...Option) (*Engine, error) {
	if states == nil {
		return nil, ErrStateRepositoryRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}

	e := &Engine{
		states:    states,
		documents: documents,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// StartWorkflow places a document at the start of a workflow and persists
// the state. An empty workflowName selects the definition for the document
// type; an empty initialStage selects the definition's first stage.
func (e *Engine) StartWorkflow(ctx context.Context, doc *core.Document, workflowName, initialStage string) (*core.WorkflowState, error) {
	def, err := e.definition(doc, workflowName)
	if err != nil {
		return nil, err
	}

	if initialStage == "" {
		initialStage = def.InitialStage()
	}
	if !def.ValidStage(initialStage) {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownStage, initialStage, def.Name)
	}

	state := &core.WorkflowState{
		DocumentId:       doc.Id,
		WorkflowName:     def.Name,
		CurrentStage:     initialStage,
		NextStages:       def.NextStages(initialStage),
		AutoTransitions:  len(def.AutomationRules(initialStage)) > 0,
		RequiresApproval: def.RequiresApproval(initialStage),
		StartedAt:        time.Now().UTC(),
	}

	if err := e.states.SaveWorkflowState(ctx, state); err != nil {
		return nil, err
	}

	e.logger.Debug("started workflow",
		"document", doc.Id,
		"workflow", def.Name,
		"stage", initialStage)

	return state, nil
}

// Advance moves a document's workflow to nextStage.
//
// Returns ErrInvalidTransition when nextStage is not reachable from the
// current stage; that failure is fatal and nothing is persisted. On success
// the state records the transition, merges results, and automation rules
// for the entered stage are evaluated. Automation failures are logged and
// do not fail the advance.
func (e *Engine) Advance(ctx context.Context, doc *core.Document, nextStage string, results map[string]string) (*core.WorkflowState, error) {
	state, err := e.states.GetWorkflowState(ctx, doc.Id)
	if err != nil {
		return nil, err
	}

	def, err := DefinitionByName(state.WorkflowName)
	if err != nil {
		return nil, err
	}

	if !def.CanTransition(state.CurrentStage, nextStage) {
		return nil, fmt.Errorf("%w: %s: %q -> %q", ErrInvalidTransition, def.Name, state.CurrentStage, nextStage)
	}

	state.StagesCompleted = append(state.StagesCompleted, state.CurrentStage)
	state.CurrentStage = nextStage
	state.NextStages = def.NextStages(nextStage)
	state.AutoTransitions = len(def.AutomationRules(nextStage)) > 0
	state.RequiresApproval = def.RequiresApproval(nextStage)

	if len(results) > 0 {
		if state.WorkflowResults == nil {
			state.WorkflowResults = make(map[string]string, len(results))
		}
		for k, v := range results {
			state.WorkflowResults[k] = v
		}
	}

	if err := e.states.SaveWorkflowState(ctx, state); err != nil {
		return nil, err
	}

	e.logger.Info("advanced workflow",
		"document", doc.Id,
		"workflow", def.Name,
		"stage", nextStage)

	e.runAutomation(ctx, doc, state, def)

	return state, nil
}

// RunAutomation re-evaluates the automation rules for a document's current
// stage. Used to pick up rules whose conditions depend on time or on
// document fields that changed after the stage was entered.
func (e *Engine) RunAutomation(ctx context.Context, doc *core.Document) error {
	state, err := e.states.GetWorkflowState(ctx, doc.Id)
	if err != nil {
		return err
	}

	def, err := DefinitionByName(state.WorkflowName)
	if err != nil {
		return err
	}

	e.runAutomation(ctx, doc, state, def)
	return nil
}

func (e *Engine) definition(doc *core.Document, workflowName string) (*Definition, error) {
	if workflowName == "" {
		return DefinitionFor(doc.Type), nil
	}
	return DefinitionByName(workflowName)
}

type depthKey struct{}

func cascadeDepth(ctx context.Context) int {
	depth, _ := ctx.Value(depthKey{}).(int)
	return depth
}

func withCascadeDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}

// runAutomation evaluates and executes the rules attached to the document's
// current stage. Rule failures are logged, never propagated.
func (e *Engine) runAutomation(ctx context.Context, doc *core.Document, state *core.WorkflowState, def *Definition) {
	rules := def.AutomationRules(state.CurrentStage)
	if len(rules) == 0 {
		return
	}

	depth := cascadeDepth(ctx)

	for _, rule := range rules {
		if !e.conditionMet(ctx, rule.Condition, doc, state) {
			continue
		}
		if err := e.execute(ctx, rule.Action, doc, state, depth); err != nil {
			e.logger.Error("automation action failed",
				"document", doc.Id,
				"stage", state.CurrentStage,
				"err", err)
		}
	}
}

func (e *Engine) conditionMet(ctx context.Context, cond Condition, doc *core.Document, state *core.WorkflowState) bool {
	switch c := cond.(type) {
	case StatusChange:
		return state.CurrentStage == c.Status || doc.Status == c.Status
	case StageDuration:
		return time.Since(state.UpdatedAt) >= c.MinDuration
	case DocumentTypeIs:
		return doc.Type == c.Type
	case PriorityLevel:
		return doc.Priority == c.Priority
	case CompletionAtLeast:
		return doc.CompletionPercentage >= c.Percentage
	case HasRelationships:
		if e.relationships == nil {
			e.logger.Warn("has_relationships condition without relationship repository", "document", doc.Id)
			return false
		}
		edges, err := e.relationships.GetRelationshipsBySource(ctx, doc.Id)
		if err != nil {
			e.logger.Error("error counting relationships", "document", doc.Id, "err", err)
			return false
		}
		return len(edges) >= c.Minimum
	case CustomField:
		return compareField(doc.Metadata[c.Field], c.Operator, c.Value)
	default:
		e.logger.Warn("unsupported automation condition",
			"document", doc.Id,
			"condition", fmt.Sprintf("%T", cond))
		return false
	}
}

// compareField applies a CustomField operator to a metadata value.
func compareField(field, operator, value string) bool {
	switch operator {
	case OpEquals:
		return field == value
	case OpNotEquals:
		return field != value
	case OpGreaterThan, OpLessThan:
		a, errA := strconv.ParseFloat(field, 64)
		b, errB := strconv.ParseFloat(value, 64)
		if errA != nil || errB != nil {
			if operator == OpGreaterThan {
				return field > value
			}
			return field < value
		}
		if operator == OpGreaterThan {
			return a > b
		}
		return a < b
	case OpContains:
		return strings.Contains(field, value)
	case OpStartsWith:
		return strings.HasPrefix(field, value)
	case OpEndsWith:
		return strings.HasSuffix(field, value)
	case OpIn:
		return slices.Contains(splitList(value), field)
	case OpNotIn:
		return !slices.Contains(splitList(value), field)
	default:
		return false
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func (e *Engine) execute(ctx context.Context, action Action, doc *core.Document, state *core.WorkflowState, depth int) error {
	switch a := action.(type) {
	case AdvanceStage:
		if depth >= MaxCascadeDepth {
			e.logger.Warn("cascade depth exceeded, skipping advance_stage",
				"document", doc.Id,
				"stage", a.Stage)
			return nil
		}
		_, err := e.Advance(withCascadeDepth(ctx, depth+1), doc, a.Stage, nil)
		return err

	case CreateDocument:
		if depth >= MaxCascadeDepth {
			e.logger.Warn("cascade depth exceeded, skipping create_document",
				"document", doc.Id,
				"type", a.Type)
			return nil
		}
		if e.creator == nil {
			e.logger.Warn("create_document action without document creator", "document", doc.Id)
			return nil
		}

		generated := &core.Document{
			Type:      a.Type,
			Title:     generatedTitle(doc.Title, a),
			ProjectId: doc.ProjectId,
			Author:    doc.Author,
			Priority:  a.Priority,
			Status:    DefinitionFor(a.Type).InitialStage(),
			Metadata:  map[string]string{core.MetadataSourceDocumentId: doc.Id},
		}
		if generated.Priority == "" {
			generated.Priority = doc.Priority
		}
		if a.InheritKeywords {
			generated.Keywords = slices.Clone(doc.Keywords)
		}

		created, err := e.creator.CreateGeneratedDocument(withCascadeDepth(ctx, depth+1), doc, generated)
		if err != nil {
			return err
		}
		e.logger.Info("automation created document",
			"source", doc.Id,
			"created", created.Id,
			"type", created.Type)
		return nil

	case UpdateStatus:
		doc.Status = a.Status
		_, err := e.documents.UpdateDocuments(ctx, doc)
		return err

	case AssignReviewer:
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]string, 1)
		}
		doc.Metadata["reviewer"] = a.Reviewer
		_, err := e.documents.UpdateDocuments(ctx, doc)
		return err

	case GenerateArtifacts:
		for _, artifact := range a.Artifacts {
			if !slices.Contains(state.GeneratedArtifacts, artifact) {
				state.GeneratedArtifacts = append(state.GeneratedArtifacts, artifact)
			}
		}
		return e.states.SaveWorkflowState(ctx, state)

	case SendNotification:
		e.logger.Info("workflow notification",
			"document", doc.Id,
			"stage", state.CurrentStage,
			"message", a.Message)
		if state.WorkflowResults == nil {
			state.WorkflowResults = make(map[string]string, 1)
		}
		state.WorkflowResults["last_notification"] = a.Message
		return e.states.SaveWorkflowState(ctx, state)

	case UpdateRelationships:
		if e.regenerator == nil {
			e.logger.Warn("update_relationships action without relationship generator", "document", doc.Id)
			return nil
		}
		_, err := e.regenerator.GenerateRelationships(ctx, doc)
		return err

	default:
		e.logger.Warn("skipping automation action",
			"document", doc.Id,
			"action", fmt.Sprintf("%T", action),
			"err", ErrUnsupportedAction)
		return nil
	}
}

// generatedTitle derives a generated document's title from its source.
func generatedTitle(sourceTitle string, a CreateDocument) string {
	suffix := a.TitleSuffix
	if suffix == "" {
		suffix = string(a.Type)
	}
	if sourceTitle == "" {
		return suffix
	}
	return sourceTitle + " " + suffix
}
