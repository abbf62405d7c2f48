// Package web serves the catalog list and detail views over HTTP, both as
// HTML pages and as JSON.
package web

import (
	"bytes"
	"log"
	"net/http"

	"bookshare/internal/httpx"
	"bookshare/internal/render"
	"bookshare/internal/selection"
	"bookshare/internal/view"
)

// Catalog is the part of catalog.Store the handlers read.
type Catalog interface {
	view.Catalog
	Loaded() bool
}

type Handler struct {
	catalog  Catalog
	renderer render.Renderer
}

func NewHandler(catalog Catalog, renderer render.Renderer) *Handler {
	return &Handler{catalog: catalog, renderer: renderer}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /books/{id}", h.BookPage)
	mux.HandleFunc("GET /v1/books", h.ListBooks)
	mux.HandleFunc("GET /v1/books/{id}", h.GetBook)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !h.catalog.Loaded() {
			http.Error(w, "catalog not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return mux
}

// Index handles GET / and GET /?id={id}. Without an id it shows the list.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, selection.FromQuery(r.URL.Query().Get("id")))
}

// BookPage handles GET /books/{id}.
func (h *Handler) BookPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, selection.Selected(r.PathValue("id")))
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, state selection.State) {
	var buf bytes.Buffer
	status := http.StatusOK

	if !h.catalog.Loaded() {
		status = http.StatusServiceUnavailable
		if err := h.renderer.RenderLoadError(&buf); err != nil {
			h.renderFailed(w, r, err)
			return
		}
	} else {
		vm := view.Compose(h.catalog, state)
		if vm.Kind() == view.KindNotFound {
			status = http.StatusNotFound
		}
		if err := h.renderer.Render(&buf, vm); err != nil {
			h.renderFailed(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("render failed: request_id=%s path=%s error=%v", httpx.RequestIDFrom(r), r.URL.Path, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// ListBooks handles GET /v1/books
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if !h.catalog.Loaded() {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Could not load books", nil)
		return
	}

	list := view.Compose(h.catalog, selection.NoSelection()).(view.ListView)
	httpx.JSONSuccess(w, r, list.Entries, map[string]any{
		"total": len(list.Entries),
	})
}

// GetBook handles GET /v1/books/{id}
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	if !h.catalog.Loaded() {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Could not load books", nil)
		return
	}

	switch vm := view.Compose(h.catalog, selection.Selected(r.PathValue("id"))).(type) {
	case view.DetailView:
		httpx.JSONSuccess(w, r, vm, nil)
	default:
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	}
}
