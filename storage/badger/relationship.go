package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// RelationshipRepository implements storage.RelationshipRepository for BadgerDB.
type RelationshipRepository struct {
	backend *Backend
}

var _ storage.RelationshipRepository = (*RelationshipRepository)(nil)

// NewRelationshipRepository creates a new RelationshipRepository.
func NewRelationshipRepository(backend *Backend) (*RelationshipRepository, error) {
	return &RelationshipRepository{
		backend: backend,
	}, nil
}

// Close releases resources. RelationshipRepository has no resources to release.
func (r *RelationshipRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *RelationshipRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRelationships adds one or more relationship edges.
// Edges with a zero Id get a content-derived ID, so identical edges land on
// the same key and regeneration stays idempotent.
func (r *RelationshipRepository) AddRelationships(ctx context.Context, rels ...*core.Relationship) ([]*core.Relationship, error) {
	err := r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		for _, rel := range rels {
			if rel.Id == 0 {
				rel.Id = core.RelationshipID(rel.SourceDocumentId, rel.TargetDocumentId, rel.Type, rel.Method())
			}
			if rel.CreatedAt.IsZero() {
				rel.CreatedAt = time.Now().UTC()
			}

			key := makeRelationshipKey(rel.Id)
			value := storage.MarshalRelationship(rel)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Source and target indexes
			if err := tx.Set(makeRelationshipSrcKey(rel.SourceDocumentId, rel.Id), storage.MarshalID(rel.Id)); err != nil {
				return err
			}
			if err := tx.Set(makeRelationshipTgtKey(rel.TargetDocumentId, rel.Id), storage.MarshalID(rel.Id)); err != nil {
				return err
			}
		}
		return nil
	})

	return rels, err
}

// UpdateRelationships updates existing relationship edges.
// The edge ID encodes source, target, type and method, so edges cannot be
// re-pointed in place; only strength and metadata may change.
func (r *RelationshipRepository) UpdateRelationships(ctx context.Context, rels ...*core.Relationship) ([]*core.Relationship, error) {
	err := r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		for _, rel := range rels {
			key := makeRelationshipKey(rel.Id)

			old, err := r.readRelationship(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			rel.CreatedAt = old.CreatedAt
			value := storage.MarshalRelationship(rel)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return nil
	})

	return rels, err
}

// DeleteRelationships removes relationship edges by their IDs.
func (r *RelationshipRepository) DeleteRelationships(ctx context.Context, ids ...core.ID) error {
	return r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := r.deleteRelationship(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// deleteRelationship removes one edge and its index entries within a transaction.
func (r *RelationshipRepository) deleteRelationship(tx *badger.Txn, id core.ID) error {
	key := makeRelationshipKey(id)

	old, err := r.readRelationship(tx, key)
	if err != nil {
		return err
	}
	if old == nil {
		return storage.ErrNotFound
	}

	if err := tx.Delete(key); err != nil {
		return err
	}
	if err := tx.Delete(makeRelationshipSrcKey(old.SourceDocumentId, id)); err != nil {
		return err
	}
	return tx.Delete(makeRelationshipTgtKey(old.TargetDocumentId, id))
}

// GetRelationship retrieves a single edge by ID.
func (r *RelationshipRepository) GetRelationship(ctx context.Context, id core.ID) (*core.Relationship, error) {
	var rel *core.Relationship
	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		var err error
		rel, err = r.readRelationship(tx, makeRelationshipKey(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, storage.ErrNotFound
	}
	return rel, nil
}

// GetRelationshipsBySource retrieves all edges whose source is the document.
func (r *RelationshipRepository) GetRelationshipsBySource(ctx context.Context, documentId string) ([]*core.Relationship, error) {
	return r.collect(ctx, makePartialRelationshipSrcKey(documentId))
}

// GetRelationshipsByTarget retrieves all edges whose target is the document.
func (r *RelationshipRepository) GetRelationshipsByTarget(ctx context.Context, documentId string) ([]*core.Relationship, error) {
	return r.collect(ctx, makePartialRelationshipTgtKey(documentId))
}

// collect loads every edge referenced by an index prefix.
func (r *RelationshipRepository) collect(ctx context.Context, prefix []byte) ([]*core.Relationship, error) {
	var rels []*core.Relationship

	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		ids, err := r.indexedIDs(tx, prefix)
		if err != nil {
			return err
		}
		for _, id := range ids {
			rel, err := r.readRelationship(tx, makeRelationshipKey(id))
			if err != nil {
				return err
			}
			if rel != nil {
				rels = append(rels, rel)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return rels, nil
}

// DeleteAutoGenerated removes every auto-generated edge whose source is the document.
func (r *RelationshipRepository) DeleteAutoGenerated(ctx context.Context, documentId string) error {
	return r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		ids, err := r.indexedIDs(tx, makePartialRelationshipSrcKey(documentId))
		if err != nil {
			return err
		}
		for _, id := range ids {
			rel, err := r.readRelationship(tx, makeRelationshipKey(id))
			if err != nil {
				return err
			}
			if rel == nil || !rel.AutoGenerated {
				continue
			}
			if err := r.deleteRelationship(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForDocument removes every edge touching the document in either direction.
func (r *RelationshipRepository) DeleteForDocument(ctx context.Context, documentId string) error {
	return r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		srcIds, err := r.indexedIDs(tx, makePartialRelationshipSrcKey(documentId))
		if err != nil {
			return err
		}
		tgtIds, err := r.indexedIDs(tx, makePartialRelationshipTgtKey(documentId))
		if err != nil {
			return err
		}
		for _, id := range append(srcIds, tgtIds...) {
			err := r.deleteRelationship(tx, id)
			if err == storage.ErrNotFound {
				continue // already removed via the other index
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// indexedIDs collects the edge IDs under an index prefix.
// Keys are collected before any mutation so deletes can run on the same transaction.
func (r *RelationshipRepository) indexedIDs(tx *badger.Txn, prefix []byte) ([]core.ID, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var ids []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		err := iter.Item().Value(func(val []byte) error {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return err
			}
			ids = append(ids, id)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// readRelationship reads an edge by key within a transaction.
// Returns nil, nil if the key does not exist.
func (r *RelationshipRepository) readRelationship(tx *badger.Txn, key []byte) (*core.Relationship, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var rel *core.Relationship
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		rel, unmarshalErr = storage.UnmarshalRelationship(val)
		return unmarshalErr
	})
	return rel, err
}
