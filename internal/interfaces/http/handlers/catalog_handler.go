package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/fusionatlas/fusion-catalog/internal/application/query"
	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
)

// CatalogHandler serves the catalog read API.
type CatalogHandler struct {
	svc *query.Service
	log logging.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc *query.Service, log logging.Logger) *CatalogHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &CatalogHandler{svc: svc, log: log.Named("catalog_handler")}
}

// List handles GET /api/v1/companies.
//
// Query parameters: fuel_source (repeatable), approach (repeatable),
// q (substring over name and description), min_funding_musd (millions).
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := parsePredicates(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	res, err := h.svc.Search(r.Context(), p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Summary handles GET /api/v1/companies/summary.  It accepts the same filter
// parameters as List and returns the aggregate metrics and chart series for
// the filtered view.
func (h *CatalogHandler) Summary(w http.ResponseWriter, r *http.Request) {
	p, err := parsePredicates(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	res, err := h.svc.Summarize(r.Context(), p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Distributions handles GET /api/v1/companies/distributions?field=...
func (h *CatalogHandler) Distributions(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if field == "" {
		writeBadRequest(w, "field parameter is required")
		return
	}

	p, err := parsePredicates(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	res, err := h.svc.Distribute(r.Context(), p, catalog.Field(field))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Get handles GET /api/v1/companies/{name}.  The name is the exact company
// name, URL-escaped.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "" {
		writeBadRequest(w, "company name is required")
		return
	}

	detail, err := h.svc.Detail(r.Context(), name)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// FilterOptions handles GET /api/v1/filters.
func (h *CatalogHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.FilterOptions(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// Refresh handles POST /api/v1/catalog/refresh.  It discards the cached
// snapshot and reloads from the upstream source.
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Refresh(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	h.log.Info("manual catalog refresh", logging.Int("records", res.Count))
	writeJSON(w, http.StatusOK, res)
}
