package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	err     error
	applied int
	ready   bool
}

func (f *fakeRemote) Ping(context.Context) error { return f.err }

func (f *fakeRemote) Status() (int, bool, error) { return f.applied, f.ready, f.err }

func getStatus(t *testing.T, h *AdminHandler) SystemStatus {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out SystemStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestStatus_ReflectsRemoteRecovery(t *testing.T) {
	remote := &fakeRemote{err: errors.New("connection refused")}
	h := NewAdminHandler(SystemStatus{RemoteConfigured: true, Backends: []string{"remote", "local"}}, remote, remote)

	down := getStatus(t, h)
	assert.False(t, down.RemoteReachable)
	assert.False(t, down.SchemaReady)
	assert.Equal(t, "connection refused", down.RemoteError)
	assert.Equal(t, []string{"remote", "local"}, down.Backends)

	remote.err = nil
	remote.applied, remote.ready = 2, true
	up := getStatus(t, h)
	assert.True(t, up.RemoteReachable)
	assert.True(t, up.SchemaReady)
	assert.Equal(t, 2, up.MigrationsApplied)
	assert.Empty(t, up.RemoteError)
}
