package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	domainerrors "moodjournal/internal/errors"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/models"
	"moodjournal/internal/services"
)

const maxImportBody = 8 << 20

type MigrateHandler struct {
	svc    *services.RecordService
	logger *zap.Logger
}

func NewMigrateHandler(svc *services.RecordService, logger *zap.Logger) *MigrateHandler {
	return &MigrateHandler{svc: svc, logger: logger}
}

// Export godoc
// @Summary Export records
// @Description Downloads every record of the caller as a JSON array.
// @Produce json
// @Router /export [get]
func (h *MigrateHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export(r.Context(), mw.ScopeFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	filename := fmt.Sprintf("mood-records-%s.json", time.Now().Format(models.DateLayout))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// Import godoc
// @Summary Import records
// @Description Saves every valid record of a previously exported JSON array,
// replacing records with the same date.
// @Accept json
// @Success 201 {object} map[string]int
// @Failure 400 {object} errorResponse
// @Router /import [post]
func (h *MigrateHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		writeError(w, h.logger, domainerrors.Validationf("read body: %v", err))
		return
	}
	n, err := h.svc.Import(r.Context(), mw.ScopeFrom(r.Context()), data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}
