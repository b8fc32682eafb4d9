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

package relationship

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

const (
	// hierarchyCandidates is how many candidate parents are considered per
	// parent type, in repository return order.
	hierarchyCandidates = 3

	// hierarchyThreshold is the minimum strength for a hierarchy edge.
	hierarchyThreshold = 0.3

	// keywordThreshold is the minimum keyword Jaccard for a semantic edge.
	keywordThreshold = 0.4

	// contentReferenceStrength is the fixed strength assigned to edges
	// created because one document's content mentions another's title.
	contentReferenceStrength = 0.8

	// recencyWindow is the time span over which the recency component of
	// the hierarchy strength decays from 1 to 0.
	recencyWindow = 30 * 24 * time.Hour
)

// Engine computes and persists typed, weighted edges between documents.
//
// Edges it creates are flagged auto-generated; regeneration deletes those
// and recreates them from current document state, leaving manually created
// edges untouched. Edge IDs are content-derived, so regenerating with
// unchanged documents yields the same edge set.
type Engine struct {
	documents     storage.DocumentRepository
	relationships storage.RelationshipRepository
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

// NewEngine creates a new relationship engine.
func NewEngine(documents storage.DocumentRepository, relationships storage.RelationshipRepository, opts ...Option) (*Engine, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if relationships == nil {
		return nil, ErrRelationshipRepositoryRequired
	}

	e := &Engine{
		documents:     documents,
		relationships: relationships,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// GenerateRelationships regenerates all auto-generated edges for a document.
//
// Existing auto-generated edges sourced at the document are deleted and the
// full set is recomputed from current state. The delete and recreate happen
// in one transaction so a failure cannot leave the document with a partial
// edge set.
func (e *Engine) GenerateRelationships(ctx context.Context, doc *core.Document) ([]*core.Relationship, error) {
	if doc == nil || doc.Id == "" {
		return nil, core.ErrInvalidDocument
	}

	edges := make([]*core.Relationship, 0, 8)

	hierarchy, err := e.hierarchyEdges(ctx, doc)
	if err != nil {
		return nil, err
	}
	edges = append(edges, hierarchy...)

	semantic, err := e.semanticEdges(ctx, doc)
	if err != nil {
		return nil, err
	}
	edges = append(edges, semantic...)

	generated, err := e.workflowEdges(ctx, doc)
	if err != nil {
		return nil, err
	}
	edges = append(edges, generated...)

	err = e.relationships.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.relationships.DeleteAutoGenerated(ctx, doc.Id); err != nil {
			return err
		}
		if len(edges) == 0 {
			return nil
		}
		_, err := e.relationships.AddRelationships(ctx, edges...)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("regenerated relationships",
		"document", doc.Id,
		"edges", len(edges))

	return edges, nil
}

// hierarchyEdges links a document to plausible parents of its allowed parent
// types within the same project.
func (e *Engine) hierarchyEdges(ctx context.Context, doc *core.Document) ([]*core.Relationship, error) {
	var edges []*core.Relationship

	for _, parentType := range ParentTypes(doc.Type) {
		candidates, err := e.documents.FindDocuments(ctx, storage.DocumentFilter{
			ProjectId: doc.ProjectId,
			Type:      parentType,
		}, hierarchyCandidates)
		if err != nil {
			return nil, err
		}

		for _, candidate := range candidates {
			if candidate.Id == doc.Id {
				continue
			}

			strength := hierarchyStrength(doc, candidate)
			if strength <= hierarchyThreshold {
				continue
			}

			edges = append(edges, newEdge(doc.Id, candidate.Id,
				core.RelationshipRelatesTo, core.MethodTypeHierarchy, strength))
		}
	}

	return edges, nil
}

// hierarchyStrength scores how plausible candidate is as a parent of doc.
// Components: keyword overlap, matching priority, matching author, and how
// close in time the two documents were created.
func hierarchyStrength(doc, candidate *core.Document) float64 {
	strength := 0.4 * keywordJaccard(doc.Keywords, candidate.Keywords)

	if doc.Priority != "" && doc.Priority == candidate.Priority {
		strength += 0.2
	}
	if doc.Author != "" && doc.Author == candidate.Author {
		strength += 0.1
	}

	delta := doc.CreatedAt.Sub(candidate.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	recency := 1 - float64(delta)/float64(recencyWindow)
	if recency > 0 {
		strength += 0.3 * recency
	}

	return core.ClampStrength(strength)
}

// semanticEdges links a document to others in the project whose keywords
// overlap strongly, or whose title its content mentions.
func (e *Engine) semanticEdges(ctx context.Context, doc *core.Document) ([]*core.Relationship, error) {
	others, err := e.documents.FindDocuments(ctx, storage.DocumentFilter{
		ProjectId: doc.ProjectId,
	}, 0)
	if err != nil {
		return nil, err
	}

	lowerContent := strings.ToLower(doc.Content)

	var edges []*core.Relationship
	for _, other := range others {
		if other.Id == doc.Id {
			continue
		}

		if overlap := keywordJaccard(doc.Keywords, other.Keywords); overlap > keywordThreshold {
			edges = append(edges, newEdge(doc.Id, other.Id,
				core.RelationshipRelatesTo, core.MethodKeywordAnalysis, overlap))
		}

		if other.Title != "" && strings.Contains(lowerContent, strings.ToLower(other.Title)) {
			edges = append(edges, newEdge(doc.Id, other.Id,
				core.RelationshipRelatesTo, core.MethodContentReference, contentReferenceStrength))
		}
	}

	return edges, nil
}

// workflowEdges recovers generates edges from document metadata: for each
// static generation rule, documents of the target type whose
// source_document_id points at doc were created by its workflow automation.
func (e *Engine) workflowEdges(ctx context.Context, doc *core.Document) ([]*core.Relationship, error) {
	var edges []*core.Relationship

	for _, rule := range generationRules {
		if rule.Source != doc.Type {
			continue
		}

		candidates, err := e.documents.FindDocuments(ctx, storage.DocumentFilter{
			ProjectId: doc.ProjectId,
			Type:      rule.Target,
		}, 0)
		if err != nil {
			return nil, err
		}

		for _, candidate := range candidates {
			if candidate.Metadata[core.MetadataSourceDocumentId] != doc.Id {
				continue
			}
			edges = append(edges, newEdge(doc.Id, candidate.Id,
				core.RelationshipGenerates, core.MethodWorkflowRule, 1.0))
		}
	}

	return edges, nil
}

// newEdge builds an auto-generated relationship with a deterministic ID.
func newEdge(source, target string, typ core.RelationshipType, method core.GenerationMethod, strength float64) *core.Relationship {
	return &core.Relationship{
		Id:               core.RelationshipID(source, target, typ, method),
		SourceDocumentId: source,
		TargetDocumentId: target,
		Type:             typ,
		Strength:         core.ClampStrength(strength),
		AutoGenerated:    true,
		Metadata: map[string]string{
			core.MetadataGenerationMethod: string(method),
		},
	}
}

// keywordJaccard computes Jaccard similarity over two keyword lists,
// case-insensitively and treating duplicates as one.
func keywordJaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, k := range a {
		setA[strings.ToLower(k)] = true
	}
	setB := make(map[string]bool, len(b))
	for _, k := range b {
		setB[strings.ToLower(k)] = true
	}

	intersection := 0
	for k := range setA {
		if setB[k] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
