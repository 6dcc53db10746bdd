package models

import (
	"time"

	"github.com/teamlog/backend/internal/week"
)

// PeriodicRecord is one member's measurements for one reporting period.
// At most one record exists per (user, period); the record services enforce
// that with upsert semantics, not a store constraint.
type PeriodicRecord struct {
	ID     string         `json:"id"`
	UserID string         `json:"user_id"`
	Period week.PeriodKey `json:"date"`
	// Weight in kilograms, always present.
	Weight float64 `json:"weight"`
	// Height in centimeters. Sparse: members typically enter it once and the
	// backfill propagates it to older records.
	Height *float64 `json:"height,omitempty"`
	// CustomMetrics maps metric-definition id to value. Entries may outlive
	// their definition; orphaned keys are tolerated.
	CustomMetrics map[string]float64 `json:"custom_metrics"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type UpsertRecordRequest struct {
	// Date is the period key. Empty means the current reporting week.
	Date          string             `json:"date"`
	Weight        float64            `json:"weight"`
	Height        *float64           `json:"height"`
	CustomMetrics map[string]float64 `json:"custom_metrics"`
}

func (r *UpsertRecordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Weight <= 0 {
		errors["weight"] = "Weight is required"
	}
	if r.Date != "" {
		if _, err := week.ParseKey(r.Date); err != nil {
			errors["date"] = "Date must be YYYY-MM-DD or YYYY-MM"
		}
	}

	return errors
}
