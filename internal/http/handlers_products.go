package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"vendite/internal/core"
)

type productsPage struct {
	Products    []core.Product
	EditProduct *core.Product
}

// handleProducts renders the catalog: the add form, an optional edit
// form and the product table.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	products, err := s.repo.ListProducts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List products error", "error", err)
		http.Error(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	page := productsPage{Products: products}

	if idStr := r.URL.Query().Get("edit_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err == nil {
			if p, err := s.repo.GetProduct(r.Context(), id); err == nil {
				page.EditProduct = &p
			} else {
				slog.WarnContext(r.Context(), "Product to edit not found", "id", id, "error", err)
			}
		}
	}

	if err := s.templates.ExecuteTemplate(w, "products.html", page); err != nil {
		slog.ErrorContext(r.Context(), "Products template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	p := core.Product{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Price: core.CleanNumber(r.PostFormValue("price")),
	}
	if err := p.Validate(); err != nil {
		slog.WarnContext(r.Context(), "Invalid product", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.repo.CreateProduct(r.Context(), p); err != nil {
		slog.ErrorContext(r.Context(), "Create product error", "error", err)
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p := core.Product{
		ID:    id,
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Price: core.CleanNumber(r.PostFormValue("price")),
	}
	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.repo.UpdateProduct(r.Context(), p); err != nil {
		slog.ErrorContext(r.Context(), "Update product error", "id", id, "error", err)
		http.Error(w, "failed to update product", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := s.repo.DeleteProduct(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete product error", "id", id, "error", err)
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
