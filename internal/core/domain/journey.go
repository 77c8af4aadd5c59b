package domain

import "time"

// JourneyStage is a coarse, customer-facing lifecycle checkpoint. Several
// history entries can map to a single journey stage; journey entries are only
// added at engine-defined checkpoints, not on every field edit.
type JourneyStage string

const (
	StageCreated    JourneyStage = "CREATED"
	StageConverted  JourneyStage = "CONVERTED"
	StageInProgress JourneyStage = "IN_PROGRESS"
	StageCompleted  JourneyStage = "COMPLETED"
)

// JourneyEntry is one customer-facing lifecycle checkpoint of a work order.
// Append-only, like history.
type JourneyEntry struct {
	JourneyID       string         `json:"journeyID"`
	Stage           JourneyStage   `json:"stage"`
	PerformedBy     string         `json:"performedBy"`
	PerformedByName string         `json:"performedByName"`
	Label           string         `json:"label"`
	Details         string         `json:"details"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}
