package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is the engine's view of a stock item held by the inventory
// collaborator. Only the fields the completion sequence needs.
type InventoryItem struct {
	ItemID   string          `json:"itemID"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"` // On-hand quantity, never negative
	Unit     string          `json:"unit"`
}

// InvoiceRef is the reference returned by the invoicing collaborator after a
// work order is converted to an invoice.
type InvoiceRef struct {
	InvoiceID     string `json:"invoiceID"`
	InvoiceNumber int64  `json:"invoiceNumber"`
}

// ArchivedWorkOrder is the snapshot handed to the archive sink on archive and
// delete. It carries the full order with its history plus any external
// activity records so the document is self-contained.
type ArchivedWorkOrder struct {
	Kind            string          `json:"kind"` // "work_order"
	Order           WorkOrder       `json:"order"`
	GeneralNumber   int64           `json:"generalNumber"`
	WorkOrderNumber int64           `json:"workOrderNumber"`
	Journey         []JourneyEntry  `json:"journey"`
	Activities      []ActivityEvent `json:"activities"`
	ArchivedBy      string          `json:"archivedBy"`
	ArchivedByName  string          `json:"archivedByName"`
	Reason          string          `json:"reason,omitempty"`
}

// FieldDiff records one field change for the activity log.
type FieldDiff struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// ActivityEvent is the payload sent to the suite-wide activity log on every
// mutating operation.
type ActivityEvent struct {
	EventType   string         `json:"eventType"`
	EntityKind  string         `json:"entityKind"`
	EntityID    string         `json:"entityID"`
	Action      string         `json:"action"`
	Message     string         `json:"message"`
	ActorID     string         `json:"actorID"`
	ActorName   string         `json:"actorName"`
	ActorEmail  string         `json:"actorEmail"`
	EntityLabel string         `json:"entityLabel"`
	FieldDiffs  []FieldDiff    `json:"fieldDiffs,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}
