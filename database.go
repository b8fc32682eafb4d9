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
	"log/slog"

	"github.com/poiesic/docflow/storage"
	"github.com/poiesic/docflow/storage/badger"
)

// Database bundles the storage backend and the three repositories behind a
// single open/close lifecycle.
type Database struct {
	backend       *badger.Backend
	documents     storage.DocumentRepository
	relationships storage.RelationshipRepository
	states        storage.WorkflowStateRepository
	logger        *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	logger *slog.Logger
}

// WithDatabaseLogger sets a custom logger.
// Default is slog.Default().
func WithDatabaseLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open opens a database stored at filePath.
func Open(filePath string, opts ...DatabaseOption) (*Database, error) {
	return open(filePath, false, opts...)
}

// OpenInMemory opens an ephemeral in-memory database.
func OpenInMemory(opts ...DatabaseOption) (*Database, error) {
	return open("", true, opts...)
}

func open(filePath string, inMemory bool, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	relationships, err := badger.NewRelationshipRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	states := badger.NewWorkflowStateRepository(backend)

	return &Database{
		backend:       backend,
		documents:     documents,
		relationships: relationships,
		states:        states,
		logger:        options.logger,
	}, nil
}

// Close closes the storage backend.
func (db *Database) Close() error {
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the document repository.
func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documents
}

// RelationshipRepository returns the relationship repository.
func (db *Database) RelationshipRepository() storage.RelationshipRepository {
	return db.relationships
}

// WorkflowStateRepository returns the workflow state repository.
func (db *Database) WorkflowStateRepository() storage.WorkflowStateRepository {
	return db.states
}

// NewManager builds a DocumentManager over this database's repositories.
func (db *Database) NewManager(opts ...ManagerOption) (*DocumentManager, error) {
	merged := append([]ManagerOption{WithLogger(db.logger)}, opts...)
	return NewDocumentManager(db.documents, db.relationships, db.states, merged...)
}
