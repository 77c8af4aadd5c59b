package dto

import "time"

// NotificationType classifies a scheduler notification payload.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
)

// Notification is the payload the auto-archival sweep emits per affected
// order. The scheduler does not de-duplicate across runs; callers that fan
// these out must de-duplicate by work order ID and run timestamp.
type Notification struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Link    string           `json:"link,omitempty"`
}

// AutoArchiveResult summarizes one auto-archival sweep.
type AutoArchiveResult struct {
	AutoArchived  []string       `json:"autoArchived"` // Work order IDs archived this run
	NeedsInvoice  []string       `json:"needsInvoice"` // Eligible but missing an invoice
	Notifications []Notification `json:"notifications"`
	RanAt         time.Time      `json:"ranAt"`
}
