package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWeekRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/weeks", NewWeekHandler().ListRecentWeeks)
	return r
}

func TestListRecentWeeksDefaultCount(t *testing.T) {
	router := newWeekRouter()

	req := httptest.NewRequest(http.MethodGet, "/weeks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	weeks := resp["data"].([]any)
	require.Len(t, weeks, 12)

	first := weeks[0].(map[string]any)
	assert.NotEmpty(t, first["key"])
	assert.NotEmpty(t, first["label"])
}

func TestListRecentWeeksCustomCount(t *testing.T) {
	router := newWeekRouter()

	req := httptest.NewRequest(http.MethodGet, "/weeks?count=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	require.Len(t, resp["data"], 3)
}

func TestListRecentWeeksCapsCount(t *testing.T) {
	router := newWeekRouter()

	req := httptest.NewRequest(http.MethodGet, "/weeks?count=9999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	require.Len(t, resp["data"], 104)
}

func TestListRecentWeeksRejectsBadCount(t *testing.T) {
	router := newWeekRouter()

	for _, raw := range []string{"abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/weeks?count="+raw, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "count=%s", raw)
	}
}
