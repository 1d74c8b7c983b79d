package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks that the remote store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SchemaReporter reports the outcome of the remote schema migrations.
type SchemaReporter interface {
	Status() (applied int, ready bool, lastErr error)
}

// SystemStatus is the outcome of the startup sequence, refreshed with live
// remote checks on every request.
type SystemStatus struct {
	RemoteConfigured  bool      `json:"remote_configured"`
	RemoteReachable   bool      `json:"remote_reachable"`
	RemoteError       string    `json:"remote_error,omitempty"`
	SchemaReady       bool      `json:"schema_ready"`
	MigrationsApplied int       `json:"migrations_applied"`
	BucketReady       bool      `json:"bucket_ready"`
	BucketCreated     bool      `json:"bucket_created"`
	Backends          []string  `json:"backends"`
	StartedAt         time.Time `json:"started_at"`
}

type AdminHandler struct {
	status SystemStatus
	remote Pinger
	schema SchemaReporter
}

// NewAdminHandler reports status; remote and schema are nil when no database
// is configured.
func NewAdminHandler(status SystemStatus, remote Pinger, schema SchemaReporter) *AdminHandler {
	return &AdminHandler{status: status, remote: remote, schema: schema}
}

// Status godoc
// @Summary Initialization status
// @Description Startup results, with remote reachability and schema state
// checked live. A ping also retries pending migrations.
// @Produce json
// @Success 200 {object} SystemStatus
// @Router /status [get]
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	out := h.status
	if h.remote != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		err := h.remote.Ping(ctx)
		out.RemoteReachable = err == nil
		out.RemoteError = ""
		if err != nil {
			out.RemoteError = err.Error()
		}
	}
	if h.schema != nil {
		applied, ready, err := h.schema.Status()
		out.SchemaReady = ready
		out.MigrationsApplied = applied
		if err != nil && out.RemoteError == "" {
			out.RemoteError = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, out)
}
