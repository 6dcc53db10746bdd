package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/week"
)

type WeekHandler struct{}

func NewWeekHandler() *WeekHandler {
	return &WeekHandler{}
}

// ListRecentWeeks returns the current reporting week and its predecessors,
// newest first, for the record form and chart axes.
func (h *WeekHandler) ListRecentWeeks(w http.ResponseWriter, r *http.Request) {
	count := 12
	if raw := r.URL.Query().Get("count"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid count"))
			return
		}
		count = v
	}
	if count > 104 {
		count = 104
	}

	keys := week.Recent(time.Now(), count)
	out := make([]models.WeekInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.WeekInfo{Key: k.String(), Label: k.Label()})
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(out))
}
