package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/docflow/core"
	"github.com/poiesic/docflow/storage"
)

func TestDocumentBasics(t *testing.T) {
	docRepo, relRepo, stateRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { stateRepo.Close(); relRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	doc := &core.Document{
		Type:      core.DocumentTypePRD,
		Title:     "Checkout PRD",
		Content:   "Requirements for the checkout flow",
		Keywords:  []string{"checkout", "payments"},
		Status:    "draft",
		Priority:  "high",
		Author:    "ana",
		ProjectId: "proj-1",
	}

	added, err := docRepo.AddDocuments(ctx, doc)
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(added))
	}
	if added[0].Id == "" {
		t.Fatal("Expected non-empty ID")
	}
	if added[0].Checksum == "" {
		t.Fatal("Expected checksum to be computed on add")
	}

	got, err := docRepo.GetDocument(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if got.Title != "Checkout PRD" {
		t.Fatalf("Expected 'Checkout PRD', got %q", got.Title)
	}
	if got.Type != core.DocumentTypePRD {
		t.Fatalf("Expected prd type, got %q", got.Type)
	}
	if len(got.Keywords) != 2 {
		t.Fatalf("Expected 2 keywords, got %d", len(got.Keywords))
	}
}

func TestDocumentChecksumRecomputedOnUpdate(t *testing.T) {
	docRepo, relRepo, stateRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { stateRepo.Close(); relRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	doc := &core.Document{
		Type:      core.DocumentTypeTask,
		Title:     "Wire the endpoint",
		Content:   "original body",
		ProjectId: "proj-1",
	}
	added, err := docRepo.AddDocuments(ctx, doc)
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	oldChecksum := added[0].Checksum

	added[0].Content = "updated body"
	updated, err := docRepo.UpdateDocuments(ctx, added[0])
	if err != nil {
		t.Fatalf("Failed to update document: %v", err)
	}
	if updated[0].Checksum == oldChecksum {
		t.Fatal("Expected checksum to change with content")
	}
	if updated[0].Checksum != core.ChecksumContent("updated body") {
		t.Fatal("Checksum is not a pure function of content")
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	docRepo, relRepo, stateRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { stateRepo.Close(); relRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = docRepo.UpdateDocuments(ctx, &core.Document{
		Id:        "missing",
		Type:      core.DocumentTypeTask,
		Title:     "ghost",
		ProjectId: "proj-1",
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestFindDocuments(t *testing.T) {
	docRepo, relRepo, stateRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { stateRepo.Close(); relRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	docs := []*core.Document{
		{Type: core.DocumentTypeTask, Title: "t1", ProjectId: "proj-1", Status: "todo"},
		{Type: core.DocumentTypeTask, Title: "t2", ProjectId: "proj-1", Status: "done"},
		{Type: core.DocumentTypeEpic, Title: "e1", ProjectId: "proj-1"},
		{Type: core.DocumentTypeTask, Title: "other", ProjectId: "proj-2"},
	}
	if _, err := docRepo.AddDocuments(ctx, docs...); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	// Project + type
	tasks, err := docRepo.FindDocuments(ctx, storage.DocumentFilter{ProjectId: "proj-1", Type: core.DocumentTypeTask}, 0)
	if err != nil {
		t.Fatalf("Find by project+type failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}

	// Project only
	all, err := docRepo.FindDocuments(ctx, storage.DocumentFilter{ProjectId: "proj-1"}, 0)
	if err != nil {
		t.Fatalf("Find by project failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(all))
	}

	// Status filter on top of project index
	done, err := docRepo.FindDocuments(ctx, storage.DocumentFilter{ProjectId: "proj-1", Status: "done"}, 0)
	if err != nil {
		t.Fatalf("Find by status failed: %v", err)
	}
	if len(done) != 1 || done[0].Title != "t2" {
		t.Fatalf("Expected only t2, got %d results", len(done))
	}

	// Limit
	limited, err := docRepo.FindDocuments(ctx, storage.DocumentFilter{ProjectId: "proj-1"}, 2)
	if err != nil {
		t.Fatalf("Find with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Expected 2 documents with limit, got %d", len(limited))
	}
}

func TestDeleteDocument(t *testing.T) {
	docRepo, relRepo, stateRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { stateRepo.Close(); relRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := docRepo.AddDocuments(ctx, &core.Document{
		Type: core.DocumentTypeCode, Title: "impl", ProjectId: "proj-1",
	})
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	if err := docRepo.DeleteDocuments(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	if _, err := docRepo.GetDocument(ctx, added[0].Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Index entries must be gone too
	left, err := docRepo.FindDocuments(ctx, storage.DocumentFilter{ProjectId: "proj-1"}, 0)
	if err != nil {
		t.Fatalf("Find after delete failed: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("Expected no documents after delete, got %d", len(left))
	}
}
