package relationship

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docflow/storage"
)

// Relinker regenerates relationships for every document in a project using
// a bounded worker pool. Documents are processed independently; a failure on
// one document is logged and counted but does not stop the run.
type Relinker struct {
	engine    *Engine
	documents storage.DocumentRepository
	pool      *ants.Pool
	logger    *slog.Logger
}

// RelinkerOption configures a Relinker.
type RelinkerOption func(*Relinker) error

// WithRelinkerPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithRelinkerPoolSize(size int) RelinkerOption {
	return func(r *Relinker) error {
		if size < 1 {
			size = 1
		}

		if r.pool != nil {
			r.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithRelinkerLogger sets a custom logger.
// Default is slog.Default().
func WithRelinkerLogger(logger *slog.Logger) RelinkerOption {
	return func(r *Relinker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRelinker creates a new bulk relationship regenerator.
func NewRelinker(engine *Engine, documents storage.DocumentRepository, opts ...RelinkerOption) (*Relinker, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Relinker{
		engine:    engine,
		documents: documents,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	return r, nil
}

// RelinkStats summarizes a bulk regeneration run.
type RelinkStats struct {
	Documents int
	Edges     int
	Failed    int
}

// RelinkProject regenerates relationships for every document in the project
// and blocks until all workers finish.
func (r *Relinker) RelinkProject(ctx context.Context, projectId string) (*RelinkStats, error) {
	docs, err := r.documents.FindDocuments(ctx, storage.DocumentFilter{ProjectId: projectId}, 0)
	if err != nil {
		return nil, err
	}

	var (
		wg     sync.WaitGroup
		edges  atomic.Int64
		failed atomic.Int64
	)

	for _, doc := range docs {
		doc := doc
		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()

			generated, genErr := r.engine.GenerateRelationships(ctx, doc)
			if genErr != nil {
				failed.Add(1)
				r.logger.Error("error regenerating relationships",
					"document", doc.Id,
					"err", genErr)
				return
			}
			edges.Add(int64(len(generated)))
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			r.logger.Error("error submitting relink task",
				"document", doc.Id,
				"err", submitErr)
		}
	}

	wg.Wait()

	stats := &RelinkStats{
		Documents: len(docs),
		Edges:     int(edges.Load()),
		Failed:    int(failed.Load()),
	}

	r.logger.Info("relink complete",
		"project", projectId,
		"documents", stats.Documents,
		"edges", stats.Edges,
		"failed", stats.Failed)

	return stats, nil
}

// Release releases the worker pool.
// The relinker should not be used after calling Release.
func (r *Relinker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
