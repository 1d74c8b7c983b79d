package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	domainerrors "moodjournal/internal/errors"
	"moodjournal/internal/media"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/models"
	"moodjournal/internal/services"
)

type MediaHandler struct {
	svc    *services.RecordService
	logger *zap.Logger
}

func NewMediaHandler(svc *services.RecordService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, logger: logger}
}

// Upload stores the multipart "file" field. kind=photo|audio selects the
// slot; the content type is sniffed from the bytes.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind := models.MediaKind(r.URL.Query().Get("kind"))
	if !kind.Valid() {
		writeError(w, h.logger, domainerrors.Validation("kind must be photo or audio"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, domainerrors.Validation("file too large"))
			return
		}
		writeError(w, h.logger, domainerrors.Validation("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, media.MaxUploadSize+1))
	if err != nil {
		writeError(w, h.logger, domainerrors.Validationf("read upload: %v", err))
		return
	}

	url, err := h.svc.UploadMedia(r.Context(), mw.ScopeFrom(r.Context()), kind, data, header.Filename)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

type deleteMediaRequest struct {
	URL string `json:"url"`
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteMediaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.URL == "" {
		writeError(w, h.logger, domainerrors.Validation("url is required"))
		return
	}
	ok, err := h.svc.DeleteMedia(r.Context(), req.URL)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": ok})
}
