package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vendite/internal/core"
	"vendite/internal/exports"
	"vendite/internal/grid"
	"vendite/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.SQLiteRepository, *exports.Store) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	store, err := exports.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	ctx := context.Background()
	if _, err := repo.CreateProduct(ctx, core.Product{Name: "Mele", Price: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateProduct(ctx, core.Product{Name: "Uva", Price: 1.5}); err != nil {
		t.Fatal(err)
	}

	srv := NewServer(":0", repo, store, nil, grid.DefaultCapacity)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, repo, store
}

func do(t *testing.T, srv *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	if rec := do(t, srv, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Errorf("/readyz = %d", rec.Code)
	}
}

func TestProductsPage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Mele", "Uva", "Gestione Prodotti"} {
		if !strings.Contains(body, want) {
			t.Errorf("products page missing %q", want)
		}
	}
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/products", url.Values{
		"name":  {"Pere"},
		"price": {"3.25"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /products = %d", rec.Code)
	}

	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 {
		t.Fatalf("products = %d, want 3", len(products))
	}
	created := products[2]
	if created.Name != "Pere" || created.Price != 3.25 {
		t.Errorf("created = %+v", created)
	}

	rec = do(t, srv, http.MethodPost, "/products/update", url.Values{
		"id":    {"1"},
		"name":  {"Mele Golden"},
		"price": {"2.50"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /products/update = %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/products/delete", url.Values{"id": {"2"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /products/delete = %d", rec.Code)
	}
	products, err = repo.ListProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Errorf("products after delete = %d, want 2", len(products))
	}
}

func TestCreateProductRejectsInvalid(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/products", url.Values{
		"name":  {"   "},
		"price": {"1"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /products with blank name = %d, want 400", rec.Code)
	}
}

func TestTemplateFormPage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/template", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /template = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"cliente", "date_0", "colli_0_0", "kg_0_1"} {
		if !strings.Contains(body, want) {
			t.Errorf("template form missing %q", want)
		}
	}
}

func TestGenerateAndDownloadFlow(t *testing.T) {
	srv, repo, store := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/template", url.Values{
		"cliente":    {"Rossi Mario"},
		"date_count": {"1"},
		"date_0":     {"2025-01-02"},
		"colli_0_0":  {"2"},
		"kg_0_0":     {"10.5"},
		"colli_0_1":  {"0"},
		"kg_0_1":     {"0"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /template = %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{"totalAmount", "Data: 2025-01-02", "Mele", "€21.00", "Rossi_Mario.xlsx"} {
		if !strings.Contains(body, want) {
			t.Errorf("preview missing %q", want)
		}
	}
	if strings.Contains(body, "Uva") {
		t.Error("zero-quantity product leaked into the preview")
	}

	if _, err := os.Stat(store.Path("Rossi_Mario.xlsx")); err != nil {
		t.Errorf("workbook not saved: %v", err)
	}

	pending, err := repo.PendingExports(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Client != "Rossi_Mario" {
		t.Fatalf("pending exports = %+v", pending)
	}
	if pending[0].TotalCents != 2100 || pending[0].RowCount != 1 {
		t.Errorf("recorded export = %+v", pending[0])
	}

	// Plain re-download of the saved file.
	rec = do(t, srv, http.MethodPost, "/download", url.Values{
		"file": {"Rossi_Mario.xlsx"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /download = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Rossi_Mario.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestDownloadFromEditedPreview(t *testing.T) {
	srv, repo, store := newTestServer(t)

	payload := `[
		{"type":"date_label","date":"2025-01-02"},
		{"type":"product_row","colli":2,"product_name":"Mele","kg":10.5,"price":2,"amount":99}
	]`
	rec := do(t, srv, http.MethodPost, "/download", url.Values{
		"cliente_preview": {"Rossi"},
		"preview_data":    {payload},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /download = %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := os.Stat(store.Path("Rossi.xlsx")); err != nil {
		t.Errorf("regenerated workbook not saved: %v", err)
	}

	pending, err := repo.PendingExports(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending exports = %+v", pending)
	}
	// The edited amount wins over kg*price.
	if pending[0].TotalCents != 9900 {
		t.Errorf("TotalCents = %d, want 9900", pending[0].TotalCents)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/download", url.Values{
		"file": {"missing.xlsx"},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("POST /download of missing file = %d, want 404", rec.Code)
	}
}

func TestTemplateMultiDateSparseIndices(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	// Section 1 was removed client-side; 0 and 2 must both survive.
	rec := do(t, srv, http.MethodPost, "/template", url.Values{
		"cliente":    {"Rossi"},
		"date_count": {"3"},
		"date_0":     {"2025-01-02"},
		"colli_0_0":  {"1"},
		"kg_0_0":     {"2"},
		"date_2":     {"2025-01-03"},
		"colli_2_1":  {"1"},
		"kg_2_1":     {"4"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /template = %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{"Data: 2025-01-02", "Data: 2025-01-03", "Mele", "Uva"} {
		if !strings.Contains(body, want) {
			t.Errorf("preview missing %q", want)
		}
	}

	pending, err := repo.PendingExports(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	// 2kg * €2 + 4kg * €1.50 = €10.
	if len(pending) != 1 || pending[0].TotalCents != 1000 || pending[0].RowCount != 2 {
		t.Errorf("recorded export = %+v", pending)
	}
}

func TestTemplateRejectsEmptyForm(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/template", url.Values{
		"cliente":    {"Rossi"},
		"date_count": {"1"},
		"date_0":     {"2025-01-02"},
		"colli_0_0":  {"0"},
		"kg_0_0":     {"0"},
		"colli_0_1":  {"0"},
		"kg_0_1":     {"0"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /template with no quantities = %d, want 400", rec.Code)
	}
}
