package storage

import (
	"context"

	"github.com/poiesic/docflow/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentFilter narrows a document query. Zero-valued fields are ignored.
type DocumentFilter struct {
	ProjectId        string
	Type             core.DocumentType
	Status           string
	Author           string
	ParentDocumentId string
}

// DocumentRepository provides operations for managing documents.
type DocumentRepository interface {
	Repository

	// AddDocuments adds one or more documents to storage.
	// For documents with an empty Id, generates a new opaque ID.
	// Sets CreatedAt (when zero) and UpdatedAt, and recomputes the checksum
	// from content.
	// Returns the documents with IDs and derived fields populated.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments updates existing documents.
	// Updates the UpdatedAt timestamp and recomputes the checksum.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Also removes associated index entries.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...string) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...string) ([]*core.Document, error)

	// FindDocuments retrieves up to limit documents matching the filter.
	// Result order is the repository's iteration order; callers that need a
	// ranking must score the returned snapshot themselves.
	FindDocuments(ctx context.Context, filter DocumentFilter, limit int) ([]*core.Document, error)
}

// RelationshipRepository provides operations for managing relationship edges.
type RelationshipRepository interface {
	Repository

	// AddRelationships adds one or more relationship edges.
	// IDs are content-derived, so re-adding an identical edge overwrites it
	// in place rather than duplicating it.
	AddRelationships(ctx context.Context, rels ...*core.Relationship) ([]*core.Relationship, error)

	// UpdateRelationships updates existing relationship edges.
	// Returns ErrNotFound if any edge doesn't exist.
	UpdateRelationships(ctx context.Context, rels ...*core.Relationship) ([]*core.Relationship, error)

	// DeleteRelationships removes relationship edges by their IDs.
	// Returns ErrNotFound if any edge doesn't exist.
	DeleteRelationships(ctx context.Context, ids ...core.ID) error

	// GetRelationship retrieves a single edge by ID.
	// Returns ErrNotFound if the edge doesn't exist.
	GetRelationship(ctx context.Context, id core.ID) (*core.Relationship, error)

	// GetRelationshipsBySource retrieves all edges whose source is the document.
	GetRelationshipsBySource(ctx context.Context, documentId string) ([]*core.Relationship, error)

	// GetRelationshipsByTarget retrieves all edges whose target is the document.
	GetRelationshipsByTarget(ctx context.Context, documentId string) ([]*core.Relationship, error)

	// DeleteAutoGenerated removes every auto-generated edge whose source is
	// the document. Manually created edges are left untouched.
	DeleteAutoGenerated(ctx context.Context, documentId string) error

	// DeleteForDocument removes every edge touching the document, in either
	// direction. Used by document cascade delete.
	DeleteForDocument(ctx context.Context, documentId string) error
}

// WorkflowStateRepository provides operations for managing workflow states.
// Workflow state is one-to-one with a document.
type WorkflowStateRepository interface {
	Repository

	// SaveWorkflowState persists a workflow state, creating or replacing it.
	// Updates the UpdatedAt timestamp automatically.
	SaveWorkflowState(ctx context.Context, state *core.WorkflowState) error

	// GetWorkflowState retrieves the workflow state for a document.
	// Returns ErrNotFound if no state exists.
	GetWorkflowState(ctx context.Context, documentId string) (*core.WorkflowState, error)

	// DeleteWorkflowState removes the workflow state for a document.
	// Deleting a missing state is not an error.
	DeleteWorkflowState(ctx context.Context, documentId string) error
}
