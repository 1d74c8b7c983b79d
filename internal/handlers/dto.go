package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	domainerrors "moodjournal/internal/errors"
	"moodjournal/internal/models"
)

const maxJSONBody = 1 << 20

// recordRequest is the PUT body for a record; the date comes from the path.
type recordRequest struct {
	Mood      string   `json:"mood"`
	Intensity int      `json:"intensity"`
	Diary     string   `json:"diary"`
	PhotoURL  *string  `json:"photo_url,omitempty"`
	AudioURL  *string  `json:"audio_url,omitempty"`
	Tags      []string `json:"tags"`
}

func (req recordRequest) toInput(date string) models.RecordInput {
	return models.RecordInput{
		Date:      date,
		Mood:      req.Mood,
		Intensity: req.Intensity,
		Diary:     req.Diary,
		PhotoURL:  req.PhotoURL,
		AudioURL:  req.AudioURL,
		Tags:      req.Tags,
	}
}

type errorResponse struct {
	Code    domainerrors.Code `json:"code"`
	Message string            `json:"message"`
	Details any               `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status code. Only the messages of coded domain
// errors reach the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	status := domainerrors.HTTPStatus(err)
	resp := errorResponse{Code: domainerrors.CodeOf(err), Message: http.StatusText(status)}

	var derr *domainerrors.Error
	if errors.As(err, &derr) && status < http.StatusInternalServerError {
		resp.Message = derr.Message
		resp.Details = derr.Details
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Code: domainerrors.CodeNotFound, Message: msg})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domainerrors.Validation("request body is empty")
		}
		return domainerrors.Validationf("invalid body: %v", err)
	}
	return nil
}

// referenceDate reads the caller's "today" from local_date=YYYY-MM-DD,
// defaulting to the server's current date.
func referenceDate(r *http.Request) (time.Time, error) {
	s := r.URL.Query().Get("local_date")
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, domainerrors.Validation("invalid local_date format; expected YYYY-MM-DD")
	}
	return t, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, domainerrors.Validationf("invalid %s", key)
	}
	return n, nil
}
