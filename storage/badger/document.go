package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocuments adds one or more documents to storage.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		for _, doc := range docs {
			if doc.Id == "" {
				doc.Id = core.NewDocumentID()
			}

			if doc.CreatedAt.IsZero() {
				doc.CreatedAt = time.Now().UTC()
			}
			doc.UpdatedAt = doc.CreatedAt
			doc.Checksum = core.ChecksumContent(doc.Content)

			// Store primary record
			key := makeDocumentKey(doc.Id)
			value := storage.MarshalDocument(doc)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update project and project+type indexes
			if err := tx.Set(makeDocumentProjectKey(doc.ProjectId, doc.Id), []byte(doc.Id)); err != nil {
				return err
			}
			if err := tx.Set(makeDocumentTypeKey(doc.ProjectId, doc.Type, doc.Id), []byte(doc.Id)); err != nil {
				return err
			}
		}
		return nil
	})

	return docs, err
}

// UpdateDocuments updates existing documents.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		for _, doc := range docs {
			key := makeDocumentKey(doc.Id)

			// Read old record to detect index changes
			old, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			doc.CreatedAt = old.CreatedAt
			doc.UpdatedAt = time.Now().UTC()
			doc.Checksum = core.ChecksumContent(doc.Content)

			value := storage.MarshalDocument(doc)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update indexes if project or type changed
			if old.ProjectId != doc.ProjectId || old.Type != doc.Type {
				if err := tx.Delete(makeDocumentProjectKey(old.ProjectId, old.Id)); err != nil {
					return err
				}
				if err := tx.Delete(makeDocumentTypeKey(old.ProjectId, old.Type, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeDocumentProjectKey(doc.ProjectId, doc.Id), []byte(doc.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeDocumentTypeKey(doc.ProjectId, doc.Type, doc.Id), []byte(doc.Id)); err != nil {
					return err
				}
			}
		}
		return nil
	})

	return docs, err
}

// DeleteDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...string) error {
	return r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			old, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeDocumentProjectKey(old.ProjectId, old.Id)); err != nil {
				return err
			}
			if err := tx.Delete(makeDocumentTypeKey(old.ProjectId, old.Type, old.Id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		var err error
		doc, err = r.readDocument(tx, makeDocumentKey(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// GetDocuments retrieves multiple documents by their IDs.
// Missing documents are skipped without error.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...string) ([]*core.Document, error) {
	docs := make([]*core.Document, 0, len(ids))
	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := r.readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc != nil {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// FindDocuments retrieves up to limit documents matching the filter.
// A limit <= 0 means no limit. Iteration uses the narrowest available index:
// project+type, then project, then a full scan.
func (r *DocumentRepository) FindDocuments(ctx context.Context, filter storage.DocumentFilter, limit int) ([]*core.Document, error) {
	var docs []*core.Document

	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		switch {
		case filter.ProjectId != "" && filter.Type != "":
			return r.scanIndex(tx, makePartialDocumentTypeKey(filter.ProjectId, filter.Type), filter, limit, &docs)
		case filter.ProjectId != "":
			return r.scanIndex(tx, makePartialDocumentProjectKey(filter.ProjectId), filter, limit, &docs)
		default:
			return r.scanAll(tx, filter, limit, &docs)
		}
	})

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// scanIndex iterates an index prefix whose values are document IDs.
func (r *DocumentRepository) scanIndex(tx *badger.Txn, prefix []byte, filter storage.DocumentFilter, limit int, out *[]*core.Document) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if limit > 0 && len(*out) >= limit {
			return nil
		}

		var id string
		err := iter.Item().Value(func(val []byte) error {
			id = string(val)
			return nil
		})
		if err != nil {
			return err
		}

		doc, err := r.readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if doc == nil {
			continue // stale index entry
		}
		if matchesFilter(doc, filter) {
			*out = append(*out, doc)
		}
	}
	return nil
}

// scanAll iterates every document record.
func (r *DocumentRepository) scanAll(tx *badger.Txn, filter storage.DocumentFilter, limit int, out *[]*core.Document) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(documentPrefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if limit > 0 && len(*out) >= limit {
			return nil
		}

		var doc *core.Document
		err := iter.Item().Value(func(val []byte) error {
			var err error
			doc, err = storage.UnmarshalDocument(val)
			return err
		})
		if err != nil {
			return err
		}
		if doc != nil && matchesFilter(doc, filter) {
			*out = append(*out, doc)
		}
	}
	return nil
}

// matchesFilter applies the filter fields not already narrowed by an index.
func matchesFilter(doc *core.Document, filter storage.DocumentFilter) bool {
	if filter.ProjectId != "" && doc.ProjectId != filter.ProjectId {
		return false
	}
	if filter.Type != "" && doc.Type != filter.Type {
		return false
	}
	if filter.Status != "" && doc.Status != filter.Status {
		return false
	}
	if filter.Author != "" && doc.Author != filter.Author {
		return false
	}
	if filter.ParentDocumentId != "" && doc.ParentDocumentId != filter.ParentDocumentId {
		return false
	}
	return true
}

// readDocument reads a document by key within a transaction.
// Returns nil, nil if the key does not exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}
