package domain

import "time"

// HistoryAction categorizes a single audit record in a work order's history.
type HistoryAction string

const (
	ActionCreated         HistoryAction = "CREATED"
	ActionConverted       HistoryAction = "CONVERTED"
	ActionAssigned        HistoryAction = "ASSIGNED"
	ActionReassigned      HistoryAction = "REASSIGNED"
	ActionStatusChanged   HistoryAction = "STATUS_CHANGED"
	ActionUpdated         HistoryAction = "UPDATED"
	ActionCompleted       HistoryAction = "COMPLETED"
	ActionMaterialUpdated HistoryAction = "MATERIAL_UPDATED"
	ActionHoursUpdated    HistoryAction = "HOURS_UPDATED"
	ActionArchived        HistoryAction = "ARCHIVED"
	ActionDeleted         HistoryAction = "DELETED"
)

// HistoryEntry is one immutable audit record of a single change to a work
// order. Entries are only ever appended, never edited or removed.
type HistoryEntry struct {
	HistoryID       string           `json:"historyID"`
	Action          HistoryAction    `json:"action"`
	PerformedBy     string           `json:"performedBy"`
	PerformedByName string           `json:"performedByName"`
	Timestamp       time.Time        `json:"timestamp"`
	Details         string           `json:"details"`
	FromStatus      *WorkOrderStatus `json:"fromStatus,omitempty"`
	ToStatus        *WorkOrderStatus `json:"toStatus,omitempty"`
	FromAssignedTo  *string          `json:"fromAssignedTo,omitempty"`
	ToAssignedTo    *string          `json:"toAssignedTo,omitempty"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
}
