package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/teamlog/backend/internal/metrics"
	"github.com/teamlog/backend/internal/middleware"
	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/services"
	"github.com/teamlog/backend/internal/week"
)

type RecordHandler struct {
	recordService services.RecordService
}

// recordView augments a stored record with the derived health index so
// clients render it without reimplementing the rounding.
type recordView struct {
	*models.PeriodicRecord
	HealthIndex        *float64 `json:"health_index,omitempty"`
	HealthIndexDisplay string   `json:"health_index_display"`
}

func viewOf(rec *models.PeriodicRecord) recordView {
	idx := metrics.HealthIndex(rec.Weight, rec.Height)
	return recordView{
		PeriodicRecord:     rec,
		HealthIndex:        idx,
		HealthIndexDisplay: metrics.FormatValue(idx),
	}
}

func viewsOf(records []*models.PeriodicRecord) []recordView {
	out := make([]recordView, 0, len(records))
	for _, rec := range records {
		out = append(out, viewOf(rec))
	}
	return out
}

func NewRecordHandler(recordService services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// UpsertRecord creates or overwrites the caller's record for the requested
// period (the current reporting week when the body has no date).
func (h *RecordHandler) UpsertRecord(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.UpsertRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	period := week.CurrentKey()
	if req.Date != "" {
		parsed, err := week.ParseKey(req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid period key"))
			return
		}
		period = parsed
	}

	record, err := h.recordService.Upsert(r.Context(), userID, period, req.Weight, req.Height, req.CustomMetrics)
	if err != nil {
		log.Printf("[UpsertRecord] user=%s period=%s error=%v", userID, period, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save record"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(viewOf(record)))
}

func (h *RecordHandler) ListMyRecords(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	records, err := h.recordService.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("[ListMyRecords] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list records"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(viewsOf(records)))
}

// ListAllRecords feeds the team dashboard table and charts.
func (h *RecordHandler) ListAllRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordService.ListAll(r.Context())
	if err != nil {
		log.Printf("[ListAllRecords] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list records"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(viewsOf(records)))
}
