package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubPinger struct {
	err error
}

func (s *stubPinger) PingContext(ctx context.Context) error {
	return s.err
}

func TestHealthHandler_Health(t *testing.T) {
	t.Parallel()

	handler := NewHealthHandler(&stubPinger{}, "1.0.0", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestHealthHandler_DetailedHealth(t *testing.T) {
	t.Parallel()

	t.Run("database reachable", func(t *testing.T) {
		t.Parallel()
		handler := NewHealthHandler(&stubPinger{}, "1.0.0", testLogger())

		req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
		w := httptest.NewRecorder()
		handler.DetailedHealth(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp DetailedHealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "connected", resp.Database)
		assert.Equal(t, "1.0.0", resp.Version)
	})

	t.Run("database unreachable reports degraded", func(t *testing.T) {
		t.Parallel()
		handler := NewHealthHandler(&stubPinger{err: errors.New("dial tcp: refused")}, "1.0.0", testLogger())

		req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
		w := httptest.NewRecorder()
		handler.DetailedHealth(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp DetailedHealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "disconnected", resp.Database)
	})
}

func TestServiceInfoHandler_Info(t *testing.T) {
	t.Parallel()

	handler := NewServiceInfoHandler("Task Management API", "1.0.0")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.Info(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ServiceInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Task Management API", resp.Name)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "running", resp.Status)
	assert.Equal(t, "/health", resp.Health)
}
