package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/services"
)

type MetricHandler struct {
	metricService services.MetricService
}

func NewMetricHandler(metricService services.MetricService) *MetricHandler {
	return &MetricHandler{metricService: metricService}
}

func (h *MetricHandler) CreateMetric(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	metric, err := h.metricService.Create(r.Context(), &req)
	if err != nil {
		log.Printf("[CreateMetric] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create metric"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(metric))
}

func (h *MetricHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.metricService.List(r.Context())
	if err != nil {
		log.Printf("[ListMetrics] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list metrics"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(metrics))
}

// ListPresetColors returns the fixed palette the settings screen offers.
func (h *MetricHandler) ListPresetColors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.PresetColors))
}

func (h *MetricHandler) UpdateMetric(w http.ResponseWriter, r *http.Request) {
	metricID := chi.URLParam(r, "metricId")

	var req models.UpdateMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	metric, err := h.metricService.Update(r.Context(), metricID, &req)
	if err != nil {
		if err == services.ErrMetricNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Metric not found"))
			return
		}
		log.Printf("[UpdateMetric] metric=%s error=%v", metricID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update metric"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(metric))
}

func (h *MetricHandler) DeleteMetric(w http.ResponseWriter, r *http.Request) {
	metricID := chi.URLParam(r, "metricId")

	err := h.metricService.Delete(r.Context(), metricID)
	if err != nil {
		if err == services.ErrMetricNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Metric not found"))
			return
		}
		log.Printf("[DeleteMetric] metric=%s error=%v", metricID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete metric"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Metric deleted successfully"}))
}
