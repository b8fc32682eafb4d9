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


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// WorkflowStateRepository implements storage.WorkflowStateRepository for BadgerDB.
type WorkflowStateRepository struct {
	backend *Backend
}

var _ storage.WorkflowStateRepository = (*WorkflowStateRepository)(nil)

// NewWorkflowStateRepository creates a new WorkflowStateRepository.
func NewWorkflowStateRepository(backend *Backend) *WorkflowStateRepository {
	return &WorkflowStateRepository{
		backend: backend,
	}
}

// Close releases resources. WorkflowStateRepository has no resources to release.
func (r *WorkflowStateRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *WorkflowStateRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveWorkflowState persists a workflow state, creating or replacing it.
func (r *WorkflowStateRepository) SaveWorkflowState(ctx context.Context, state *core.WorkflowState) error {
	return r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		state.UpdatedAt = time.Now().UTC()
		if state.StartedAt.IsZero() {
			state.StartedAt = state.UpdatedAt
		}
		key := makeWorkflowStateKey(state.DocumentId)
		value := storage.MarshalWorkflowState(state)
		return tx.Set(key, value)
	})
}

// GetWorkflowState retrieves the workflow state for a document.
func (r *WorkflowStateRepository) GetWorkflowState(ctx context.Context, documentId string) (*core.WorkflowState, error) {
	var state *core.WorkflowState
	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		key := makeWorkflowStateKey(documentId)
		item, err := tx.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			state, unmarshalErr = storage.UnmarshalWorkflowState(val)
			return unmarshalErr
		})
	})

	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, storage.ErrNotFound
	}
	return state, nil
}

// DeleteWorkflowState removes the workflow state for a document.
func (r *WorkflowStateRepository) DeleteWorkflowState(ctx context.Context, documentId string) error {
	return r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		return tx.Delete(makeWorkflowStateKey(documentId))
	})
}
