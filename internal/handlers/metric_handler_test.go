package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/services"
)

func newMetricRouter(t *testing.T) chi.Router {
	t.Helper()
	svc, err := services.NewMemoryMetricService(t.TempDir())
	require.NoError(t, err)
	handler := NewMetricHandler(svc)

	r := chi.NewRouter()
	r.Use(authAs("alice", "Alice"))
	r.Get("/metrics", handler.ListMetrics)
	r.Get("/metrics/colors", handler.ListPresetColors)
	r.Post("/metrics", handler.CreateMetric)
	r.Put("/metrics/{metricId}", handler.UpdateMetric)
	r.Delete("/metrics/{metricId}", handler.DeleteMetric)
	return r
}

func TestCreateAndListMetrics(t *testing.T) {
	router := newMetricRouter(t)

	body := bytes.NewBufferString(`{"name":"体脂肪率","unit":"%","color":"#ef4444"}`)
	req := httptest.NewRequest(http.MethodPost, "/metrics", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody(t, rec)
	created := resp["data"].(map[string]any)
	assert.Equal(t, "体脂肪率", created["name"])
	require.NotEmpty(t, created["id"])

	listReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)

	require.Equal(t, http.StatusOK, listRec.Code)
	listResp := decodeBody(t, listRec)
	require.Len(t, listResp["data"], 1)
}

func TestCreateMetricRejectsMissingFields(t *testing.T) {
	router := newMetricRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/metrics", bytes.NewBufferString(`{"unit":"%"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMetricNotFound(t *testing.T) {
	router := newMetricRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/metrics/no-such-id", bytes.NewBufferString(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMetricNotFound(t *testing.T) {
	router := newMetricRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/metrics/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPresetColors(t *testing.T) {
	router := newMetricRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics/colors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	colors := resp["data"].([]any)
	require.Len(t, colors, len(models.PresetColors))

	first := colors[0].(map[string]any)
	assert.NotEmpty(t, first["label"])
	assert.NotEmpty(t, first["value"])
}
