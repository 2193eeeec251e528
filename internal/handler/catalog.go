package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lovinghomes/site/internal/apperror"
	"github.com/lovinghomes/site/internal/catalog"
	"github.com/lovinghomes/site/internal/model"
)

// CatalogHandler serves the static marketing content. It has no state.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// HandleServices: GET /api/services
func (h *CatalogHandler) HandleServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Services())
}

// HandleService: GET /api/services/{id}
func (h *CatalogHandler) HandleService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	svc, ok := catalog.ServiceByID(id)
	if !ok {
		writeError(w, apperror.NotFound("service", id))
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// HandlePackages: GET /api/packages
func (h *CatalogHandler) HandlePackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Packages())
}

// HandleGallery: GET /api/gallery?category=play
//
// Without a category every item is returned; an unknown category is a 400.
func (h *CatalogHandler) HandleGallery(w http.ResponseWriter, r *http.Request) {
	category := model.GalleryCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		writeError(w, apperror.ValidationFailed("category", "unknown gallery category"))
		return
	}
	writeJSON(w, http.StatusOK, catalog.Gallery(category))
}
