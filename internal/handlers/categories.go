package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domainerrors "moodjournal/internal/errors"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/models"
	"moodjournal/internal/services"
)

type CategoryHandler struct {
	registry *services.CategoryRegistry
	logger   *zap.Logger
}

func NewCategoryHandler(registry *services.CategoryRegistry, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{registry: registry, logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.registry.GetAll(r.Context(), mw.ScopeFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Create answers 409 when the name is already taken.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	cat, err := h.registry.Save(r.Context(), mw.ScopeFrom(r.Context()), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if cat == nil {
		writeError(w, h.logger, domainerrors.AlreadyExists("a mood category with this name already exists"))
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	cat, err := h.registry.Update(r.Context(), mw.ScopeFrom(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if cat == nil {
		writeNotFound(w, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.registry.Delete(r.Context(), mw.ScopeFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !ok {
		writeNotFound(w, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
