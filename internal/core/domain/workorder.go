package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderStatus indicates the workflow state of a work order.
type WorkOrderStatus string

const (
	StatusTodo       WorkOrderStatus = "TODO"
	StatusPending    WorkOrderStatus = "PENDING"
	StatusInProgress WorkOrderStatus = "IN_PROGRESS"
	StatusCompleted  WorkOrderStatus = "COMPLETED"
)

// IsValid reports whether the status is one of the known workflow states.
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// WorkOrderSource indicates where a work order originated.
type WorkOrderSource string

const (
	SourceManual  WorkOrderSource = "MANUAL"
	SourceQuote   WorkOrderSource = "QUOTE"
	SourceInvoice WorkOrderSource = "INVOICE"
)

// Material is one line of the work order's ordered material list. A line may
// reference an inventory item, in which case completing the order deducts the
// quantity from stock.
type Material struct {
	InventoryItemID *string         `json:"inventoryItemID,omitempty"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
}

// WorkOrder is the aggregate root of the lifecycle engine. GeneralNumber and
// WorkOrderNumber are two independently sequential human-facing numbers
// assigned exactly once at creation and never reused.
type WorkOrder struct {
	WorkOrderID     string `json:"workOrderID"` // Primary key (UUID)
	GeneralNumber   int64  `json:"generalNumber"`
	WorkOrderNumber int64  `json:"workOrderNumber"`

	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	Notes         string `json:"notes"`
	PendingReason string `json:"pendingReason"`

	// Weak references, lookup-only. The engine never owns these entities.
	AssignedTo     *string `json:"assignedTo,omitempty"`
	AssignedToName string  `json:"assignedToName,omitempty"`
	CustomerID     *string `json:"customerID,omitempty"`
	CustomerName   string  `json:"customerName,omitempty"`
	QuoteID        *string `json:"quoteID,omitempty"`
	InvoiceID      *string `json:"invoiceID,omitempty"`

	Status     WorkOrderStatus `json:"status"`
	IsArchived bool            `json:"isArchived"` // Orthogonal flag, not a status

	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	ArchivedAt    *time.Time `json:"archivedAt,omitempty"`
	ArchivedBy    string     `json:"archivedBy,omitempty"`
	ArchiveReason string     `json:"archiveReason,omitempty"`

	EstimatedHours decimal.Decimal `json:"estimatedHours"`
	HoursSpent     decimal.Decimal `json:"hoursSpent"`
	EstimatedCost  decimal.Decimal `json:"estimatedCost"`

	Materials []Material     `json:"materials"`
	History   []HistoryEntry `json:"history"` // Append-only
	Journey   []JourneyEntry `json:"journey"` // Append-only

	AuditFields
}

// StatusBeforeCompletion derives the status the order held before it was last
// completed by scanning history, newest first, for the most recent transition
// into COMPLETED. The history log is the single source of this fact; there is
// no redundant "previous status" field. Defaults to IN_PROGRESS when no such
// entry exists.
func (w *WorkOrder) StatusBeforeCompletion() WorkOrderStatus {
	for i := len(w.History) - 1; i >= 0; i-- {
		e := w.History[i]
		if e.ToStatus != nil && *e.ToStatus == StatusCompleted && e.FromStatus != nil {
			return *e.FromStatus
		}
	}
	return StatusInProgress
}
