package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"vendite/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states of an export-history record.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// ExportRecord is one row of the export history: enough to rebuild the
// ledger line for a generated sales note.
type ExportRecord struct {
	ID         int64
	Client     string
	Filename   string
	TotalCents int64
	RowCount   int
	SyncStatus string
	Version    int64
	CreatedAt  time.Time
}

// Total returns the euro value of the export.
func (r ExportRecord) Total() float64 {
	return float64(r.TotalCents) / 100.0
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListProducts returns the catalog in insertion order; it backs both the
// entry form and price lookup during generation.
func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id int64) (core.Product, error) {
	var p core.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		return core.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) CreateProduct(ctx context.Context, p core.Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("validate product: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products(name, price) VALUES(?, ?)`, p.Name, p.Price)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("product insert id: %w", err)
	}
	slog.InfoContext(ctx, "Product created", "id", id, "name", p.Name, "price", p.Price)
	return id, nil
}

func (r *SQLiteRepository) UpdateProduct(ctx context.Context, p core.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate product: %w", err)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ? WHERE id = ?`, p.Name, p.Price, p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// RecordExport stores the history row for a saved sales note and returns its
// id and version for the sync message.
func (r *SQLiteRepository) RecordExport(ctx context.Context, client, filename string, total float64, rowCount int) (ExportRecord, error) {
	rec := ExportRecord{
		Client:     client,
		Filename:   filename,
		TotalCents: int64(math.Round(total * 100)),
		RowCount:   rowCount,
		SyncStatus: SyncPending,
		Version:    1,
		CreatedAt:  time.Now(),
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO exports(client, filename, total_cents, row_count, sync_status, version, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		rec.Client, rec.Filename, rec.TotalCents, rec.RowCount, rec.SyncStatus, rec.Version, rec.CreatedAt)
	if err != nil {
		return ExportRecord{}, fmt.Errorf("record export: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return ExportRecord{}, fmt.Errorf("export insert id: %w", err)
	}

	slog.InfoContext(ctx, "Export recorded",
		"id", rec.ID,
		"client", rec.Client,
		"filename", rec.Filename,
		"total_cents", rec.TotalCents,
		"rows", rec.RowCount)
	return rec, nil
}

func (r *SQLiteRepository) GetExport(ctx context.Context, id int64) (ExportRecord, error) {
	var rec ExportRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, client, filename, total_cents, row_count, sync_status, version, created_at
		 FROM exports WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Client, &rec.Filename, &rec.TotalCents, &rec.RowCount,
			&rec.SyncStatus, &rec.Version, &rec.CreatedAt)
	if err != nil {
		return ExportRecord{}, fmt.Errorf("get export %d: %w", id, err)
	}
	return rec, nil
}

// PendingExports lists export rows not yet written to the ledger, oldest
// first, for the worker's periodic sweep.
func (r *SQLiteRepository) PendingExports(ctx context.Context, limit int) ([]ExportRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client, filename, total_cents, row_count, sync_status, version, created_at
		 FROM exports WHERE sync_status = ? ORDER BY created_at LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}
	defer rows.Close()

	var recs []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.Client, &rec.Filename, &rec.TotalCents,
			&rec.RowCount, &rec.SyncStatus, &rec.Version, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return recs, nil
}

func (r *SQLiteRepository) MarkExportSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE exports SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark export synced: %w", err)
	}
	slog.InfoContext(ctx, "Export marked as synced", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkExportSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE exports SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark export sync error: %w", err)
	}
	slog.WarnContext(ctx, "Export marked with sync error", "id", id)
	return nil
}
