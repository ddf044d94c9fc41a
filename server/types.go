// Package server - HTTP backend exposing the diagnosis pipeline, treatment
// playbooks and anonymized outbreak reporting.
package server

import (
	"time"

	"github.com/leaflens-ai/go-diagnose/diagnosis"
)

// DiagnoseRequest is the POST /v1/diagnose body. The image travels as
// standard base64; crop is an optional hint carried through to the result.
type DiagnoseRequest struct {
	ImageBase64 string `json:"image_base64"`
	Crop        string `json:"crop,omitempty"`
}

// DiagnoseResponse is the stored and returned diagnosis record.
type DiagnoseResponse struct {
	ID              string                 `json:"id"`
	Predictions     []diagnosis.Prediction `json:"predictions"`
	Confidence      float32                `json:"confidence"`
	CropType        string                 `json:"crop_type,omitempty"`
	Recommendations []Recommendation       `json:"recommendations"`
	Timestamp       time.Time              `json:"timestamp"`
}

// Priority orders care recommendations, highest urgency first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String returns the wire name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// MarshalJSON encodes the priority by name.
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Recommendation is a category-derived care suggestion attached to a
// diagnosis response.
type Recommendation struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       Priority `json:"priority"`
	Steps          []string `json:"steps"`
	SafetyNotes    string   `json:"safety_notes,omitempty"`
	OrganicOptions []string `json:"organic_options,omitempty"`
}

// Playbook is a full treatment protocol looked up by code.
type Playbook struct {
	Code                string         `json:"code"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Steps               []PlaybookStep `json:"steps"`
	SafetyNotes         []string       `json:"safety_notes"`
	OrganicAlternatives []string       `json:"organic_alternatives,omitempty"`
	PreventionTips      []string       `json:"prevention_tips"`
	LastUpdated         time.Time      `json:"last_updated"`
}

// PlaybookStep is one numbered step of a playbook.
type PlaybookStep struct {
	StepNumber  int      `json:"step_number"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration,omitempty"`
	Materials   []string `json:"materials,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Severity grades an outbreak report by diagnosis confidence.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// OutbreakReportRequest is the POST /v1/outbreaks body.
type OutbreakReportRequest struct {
	CropType   string  `json:"crop_type"`
	Disease    string  `json:"disease"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Confidence float64 `json:"confidence"`
}

// OutbreakReportResponse acknowledges a submitted report.
type OutbreakReportResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// OutbreakData is one report in a region listing.
type OutbreakData struct {
	ID         string    `json:"id"`
	CropType   string    `json:"crop_type"`
	Disease    string    `json:"disease"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Confidence float64   `json:"confidence"`
	Severity   Severity  `json:"severity"`
	ReportedAt time.Time `json:"reported_at"`
}

// Region bounds an outbreak listing.
type Region struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// OutbreaksResponse is the GET /v1/outbreaks body.
type OutbreaksResponse struct {
	Outbreaks  []OutbreakData `json:"outbreaks"`
	TotalCount int            `json:"total_count"`
	Region     Region         `json:"region"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string `json:"status"`
	Models string `json:"models"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
