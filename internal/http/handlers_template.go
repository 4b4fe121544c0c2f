package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"vendite/internal/core"
	"vendite/internal/exports"
	"vendite/internal/grid"
	"vendite/internal/preview"
	"vendite/internal/sheet"
)

type templateFormPage struct {
	Products []core.Product
	Today    string
}

type previewPage struct {
	Client   string
	Filename string
	Preview  preview.Preview
}

// handleTemplate shows the generator form on GET and turns a submitted
// form into a saved workbook plus an editable preview on POST.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTemplateForm(w, r)
	case http.MethodPost:
		s.generateFromForm(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderTemplateForm(w http.ResponseWriter, r *http.Request) {
	products, err := s.repo.ListProducts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List products error", "error", err)
		http.Error(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	page := templateFormPage{
		Products: products,
		Today:    time.Now().Format("2006-01-02"),
	}

	if err := s.templates.ExecuteTemplate(w, "template_form.html", page); err != nil {
		slog.ErrorContext(r.Context(), "Template form execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) generateFromForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	products, err := s.repo.ListProducts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List products error", "error", err)
		http.Error(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	client := exports.SanitizeClientName(r.PostFormValue("cliente"))
	sections := parseFormSections(r, products)
	if len(sections) == 0 {
		http.Error(w, "nessun prodotto selezionato", http.StatusBadRequest)
		return
	}

	g := grid.Build(sections, s.capacity)
	if err := s.saveAndRecord(r, client, g); err != nil {
		slog.ErrorContext(r.Context(), "Export generation failed", "client", client, "error", err)
		http.Error(w, "failed to generate export", http.StatusInternalServerError)
		return
	}

	page := previewPage{
		Client:   client,
		Filename: exports.Filename(client),
		Preview:  preview.FromGrid(g, noteTitle(client)),
	}

	if err := s.templates.ExecuteTemplate(w, "preview.html", page); err != nil {
		slog.ErrorContext(r.Context(), "Preview template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleDownload regenerates the workbook from edited preview data, or
// streams a previously generated file.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var filename string

	if raw := r.PostFormValue("preview_data"); raw != "" {
		client := exports.SanitizeClientName(r.PostFormValue("cliente_preview"))
		rows := preview.DecodePayload([]byte(raw))
		sections := preview.Ingest(rows)

		g := grid.Build(sections, s.capacity)
		if err := s.saveAndRecord(r, client, g); err != nil {
			slog.ErrorContext(r.Context(), "Export regeneration failed", "client", client, "error", err)
			http.Error(w, "failed to generate export", http.StatusInternalServerError)
			return
		}
		filename = exports.Filename(client)
	} else {
		filename = r.PostFormValue("file")
	}

	file, info, err := s.store.Open(filename)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export file not found", "filename", filename, "error", err)
		http.Error(w, "Errore: File non trovato per il download.", http.StatusNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name()))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if _, err := io.Copy(w, file); err != nil {
		slog.ErrorContext(r.Context(), "Export download interrupted", "filename", filename, "error", err)
	}
}

// saveAndRecord renders the grid to disk, records the export and
// announces it. A failed publish is not fatal: the periodic sweep picks
// the record up later.
func (s *Server) saveAndRecord(r *http.Request, client string, g grid.Grid) error {
	f, err := sheet.Render(g, noteTitle(client))
	if err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}

	filename := exports.Filename(client)
	if err := sheet.Save(f, s.store.Path(filename)); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	rec, err := s.repo.RecordExport(r.Context(), client, filename, g.TotalAmount(), productRowCount(g))
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExportSync(r.Context(), rec.ID, rec.Version); err != nil {
			slog.WarnContext(r.Context(), "Failed to publish export sync event", "id", rec.ID, "error", err)
		}
	}
	return nil
}

// parseFormSections reads the indexed date sections out of the
// generator form. Section indices may be sparse after client-side
// removals, so absent indices are skipped rather than treated as the
// end of the form.
func parseFormSections(r *http.Request, products []core.Product) []core.DateSection {
	count, err := strconv.Atoi(r.PostFormValue("date_count"))
	if err != nil || count < 1 {
		count = 1
	}

	var sections []core.DateSection
	for d := 0; d < count; d++ {
		dateKey := fmt.Sprintf("date_%d", d)
		if _, ok := r.PostForm[dateKey]; !ok {
			continue
		}
		date := r.PostFormValue(dateKey)

		var entries []core.Entry
		for i, p := range products {
			colli := core.CleanInt(r.PostFormValue(fmt.Sprintf("colli_%d_%d", d, i)))
			kg := core.CleanNumber(r.PostFormValue(fmt.Sprintf("kg_%d_%d", d, i)))
			if colli == 0 && kg == 0 {
				continue
			}
			entries = append(entries, core.NewEntry(colli, p.Name, kg, p.Price))
		}

		if section, ok := core.NewDateSection(date, entries); ok {
			sections = append(sections, section)
		}
	}
	return sections
}

func productRowCount(g grid.Grid) int {
	n := 0
	for _, row := range g.Rows {
		if row.Kind == grid.Product {
			n++
		}
	}
	return n
}

func noteTitle(client string) string {
	return "NOTA DI VENDITA | " + client
}
