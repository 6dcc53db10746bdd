package models

import "time"

// MetricDefinition is a team-wide custom metric (e.g. swing speed in km/h).
// Deleting a definition does not purge its values from existing records.
type MetricDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
	// Color is a hex code used by the charts. Usually one of PresetColors
	// but any value is accepted.
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateMetricRequest struct {
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Color string `json:"color"`
}

type UpdateMetricRequest struct {
	Name  *string `json:"name"`
	Unit  *string `json:"unit"`
	Color *string `json:"color"`
}

func (r *CreateMetricRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Color == "" {
		errors["color"] = "Color is required"
	}

	return errors
}

// PresetColor is one entry of the fixed chart palette offered by the
// settings screen.
type PresetColor struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var PresetColors = []PresetColor{
	{Label: "ブルー", Value: "#2563eb"},
	{Label: "レッド", Value: "#dc2626"},
	{Label: "グリーン", Value: "#16a34a"},
	{Label: "イエロー", Value: "#ca8a04"},
	{Label: "パープル", Value: "#9333ea"},
	{Label: "シアン", Value: "#0891b2"},
	{Label: "ピンク", Value: "#e11d48"},
	{Label: "ライム", Value: "#65a30d"},
	{Label: "マゼンタ", Value: "#c026d3"},
	{Label: "ティール", Value: "#0d9488"},
}

// WeightColor is the fixed series color for the built-in weight metric.
const WeightColor = "#f97316"
