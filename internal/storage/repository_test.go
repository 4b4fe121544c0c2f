package storage

import (
	"context"
	"path/filepath"
	"testing"

	"vendite/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestProductCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateProduct(ctx, core.Product{Name: "Mele", Price: 2.5})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	p, err := repo.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if p.Name != "Mele" || p.Price != 2.5 {
		t.Errorf("GetProduct() = %+v", p)
	}

	p.Price = 3.0
	if err := repo.UpdateProduct(ctx, p); err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	p, err = repo.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("GetProduct() after update error = %v", err)
	}
	if p.Price != 3.0 {
		t.Errorf("price after update = %v, want 3.0", p.Price)
	}

	if _, err := repo.CreateProduct(ctx, core.Product{Name: "Uva", Price: 1.5}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	products, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("ListProducts() returned %d products, want 2", len(products))
	}
	if products[0].Name != "Mele" || products[1].Name != "Uva" {
		t.Errorf("unexpected order: %+v", products)
	}

	if err := repo.DeleteProduct(ctx, id); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}
	products, err = repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() after delete error = %v", err)
	}
	if len(products) != 1 {
		t.Errorf("products after delete = %d, want 1", len(products))
	}
}

func TestCreateProductRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.CreateProduct(context.Background(), core.Product{Price: 1}); err == nil {
		t.Error("CreateProduct() accepted a product without a name")
	}
}

func TestExportLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec, err := repo.RecordExport(ctx, "Rossi", "Rossi.xlsx", 27.005, 2)
	if err != nil {
		t.Fatalf("RecordExport() error = %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("RecordExport() returned zero id")
	}
	if rec.TotalCents != 2701 {
		t.Errorf("TotalCents = %d, want rounded 2701", rec.TotalCents)
	}
	if rec.SyncStatus != SyncPending || rec.Version != 1 {
		t.Errorf("fresh record = %+v", rec)
	}

	loaded, err := repo.GetExport(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetExport() error = %v", err)
	}
	if loaded.Client != "Rossi" || loaded.Filename != "Rossi.xlsx" || loaded.RowCount != 2 {
		t.Errorf("GetExport() = %+v", loaded)
	}
	if loaded.Total() != 27.01 {
		t.Errorf("Total() = %v, want 27.01", loaded.Total())
	}

	pending, err := repo.PendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExports() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != rec.ID {
		t.Fatalf("PendingExports() = %+v", pending)
	}

	if err := repo.MarkExportSynced(ctx, rec.ID); err != nil {
		t.Fatalf("MarkExportSynced() error = %v", err)
	}
	pending, err = repo.PendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExports() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after sync = %d, want 0", len(pending))
	}

	loaded, err = repo.GetExport(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetExport() error = %v", err)
	}
	if loaded.SyncStatus != SyncDone {
		t.Errorf("status = %q, want %q", loaded.SyncStatus, SyncDone)
	}

	if err := repo.MarkExportSyncError(ctx, rec.ID); err != nil {
		t.Fatalf("MarkExportSyncError() error = %v", err)
	}
	loaded, err = repo.GetExport(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetExport() error = %v", err)
	}
	if loaded.SyncStatus != SyncError {
		t.Errorf("status = %q, want %q", loaded.SyncStatus, SyncError)
	}
}

func TestGetExportMissing(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.GetExport(context.Background(), 12345); err == nil {
		t.Error("GetExport() of a missing row returned no error")
	}
}
