package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"moodjournal/internal/analytics"
	domainerrors "moodjournal/internal/errors"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/services"
)

type DashboardHandler struct {
	svc    *services.RecordService
	logger *zap.Logger
}

func NewDashboardHandler(svc *services.RecordService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

func parseRange(r *http.Request) (analytics.Range, error) {
	rng, ok := analytics.ParseRange(r.URL.Query().Get("range"))
	if !ok {
		return "", domainerrors.Validation("range must be one of week, month, year, all")
	}
	return rng, nil
}

// Stats godoc
// @Summary Mood statistics
// @Description Totals, mood distribution, average intensity and streaks.
// Accepts range=week|month|year|all and local_date=YYYY-MM-DD as "today".
// @Router /stats [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	today, err := referenceDate(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	stats, err := h.svc.GetStats(r.Context(), mw.ScopeFrom(r.Context()), rng, today)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Words returns the most frequent diary words, limit=50 by default.
func (h *DashboardHandler) Words(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", analytics.DefaultWordLimit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	words, err := h.svc.GetWordFrequency(r.Context(), mw.ScopeFrom(r.Context()), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (h *DashboardHandler) Trend(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	today, err := referenceDate(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	points, err := h.svc.GetTrend(r.Context(), mw.ScopeFrom(r.Context()), rng, today)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
