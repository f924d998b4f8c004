package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EventTypeRiskAssessed is emitted when an assessment finishes.
	EventTypeRiskAssessed = "riskcalc.assessment.completed"

	// EventTypeHighRiskFlagged is emitted when an assessment lands in the HIGH category.
	EventTypeHighRiskFlagged = "riskcalc.high_risk.flagged"
)

// RiskAssessed is published when a record has been scored under a model.
type RiskAssessed struct {
	AssessedAt   time.Time `json:"assessed_at"`
	ModelID      string    `json:"model_id"`
	ModelVersion string    `json:"model_version"`
	Category     string    `json:"category"`
	Value        float64   `json:"value"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// EventType returns the event type identifier.
func (e RiskAssessed) EventType() string {
	return EventTypeRiskAssessed
}

// AggregateID returns the assessment ID.
func (e RiskAssessed) AggregateID() uuid.UUID {
	return e.AssessmentID
}

// HighRiskFlagged is published alongside RiskAssessed when the category is HIGH,
// so a consumer can prompt for a clinical follow-up.
type HighRiskFlagged struct {
	FlaggedAt    time.Time `json:"flagged_at"`
	ModelID      string    `json:"model_id"`
	Label        string    `json:"label"`
	Value        float64   `json:"value"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// EventType returns the event type identifier.
func (e HighRiskFlagged) EventType() string {
	return EventTypeHighRiskFlagged
}

// AggregateID returns the assessment ID.
func (e HighRiskFlagged) AggregateID() uuid.UUID {
	return e.AssessmentID
}
