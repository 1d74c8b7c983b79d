package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	mw "moodjournal/internal/middleware"
	"moodjournal/internal/services"
)

type JournalHandler struct {
	svc    *services.RecordService
	logger *zap.Logger
}

func NewJournalHandler(svc *services.RecordService, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{svc: svc, logger: logger}
}

// List returns every record (newest first), or the records between the
// optional start_date and end_date (oldest first).
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := mw.ScopeFrom(r.Context())
	q := r.URL.Query()
	start, end := q.Get("start_date"), q.Get("end_date")

	if start == "" && end == "" {
		records, err := h.svc.GetAll(r.Context(), scope)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
		return
	}

	if start == "" {
		start = "0001-01-01"
	}
	if end == "" {
		end = "9999-12-31"
	}
	records, err := h.svc.GetByDateRange(r.Context(), scope, start, end)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetByDate(r.Context(), mw.ScopeFrom(r.Context()), chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if rec == nil {
		writeNotFound(w, "no record for this date")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Upsert creates or replaces the record for the date in the path.
func (h *JournalHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	rec, err := h.svc.Save(r.Context(), mw.ScopeFrom(r.Context()), req.toInput(chi.URLParam(r, "date")))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.Delete(r.Context(), mw.ScopeFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !ok {
		writeNotFound(w, "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
