package dto

import (
	"time"

	"github.com/bizsuite/workorder_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaterialInput is one material line in a create/update payload.
type MaterialInput struct {
	InventoryItemID *string         `json:"inventoryItemID,omitempty"`
	Name            string          `json:"name" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Unit            string          `json:"unit"`
}

// CreateWorkOrderRequest is the payload for creating a work order, either
// manually or by conversion from a quote or invoice.
type CreateWorkOrderRequest struct {
	Title          string                 `json:"title" binding:"required"`
	Description    string                 `json:"description"`
	Location       string                 `json:"location"`
	Notes          string                 `json:"notes"`
	AssignedTo     *string                `json:"assignedTo,omitempty"`
	AssignedToName string                 `json:"assignedToName,omitempty"`
	CustomerID     *string                `json:"customerID,omitempty"`
	CustomerName   string                 `json:"customerName,omitempty"`
	QuoteID        *string                `json:"quoteID,omitempty"`
	InvoiceID      *string                `json:"invoiceID,omitempty"`
	SourceType     domain.WorkOrderSource `json:"sourceType,omitempty" binding:"omitempty,oneof=MANUAL QUOTE INVOICE"`
	SourceID       string                 `json:"sourceID,omitempty"`
	Status         *domain.WorkOrderStatus `json:"status,omitempty" binding:"omitempty,oneof=TODO PENDING IN_PROGRESS"`
	ScheduledDate  *time.Time             `json:"scheduledDate,omitempty"`
	EstimatedHours decimal.Decimal        `json:"estimatedHours"`
	EstimatedCost  decimal.Decimal        `json:"estimatedCost"`
	Materials      []MaterialInput        `json:"materials"`
}

// UpdateWorkOrderRequest is a partial patch; nil fields are left untouched.
// An AssignedTo of empty string unassigns the order.
type UpdateWorkOrderRequest struct {
	Title          *string                 `json:"title,omitempty"`
	Description    *string                 `json:"description,omitempty"`
	Location       *string                 `json:"location,omitempty"`
	Notes          *string                 `json:"notes,omitempty"`
	PendingReason  *string                 `json:"pendingReason,omitempty"`
	AssignedTo     *string                 `json:"assignedTo,omitempty"`
	AssignedToName *string                 `json:"assignedToName,omitempty"`
	CustomerID     *string                 `json:"customerID,omitempty"`
	CustomerName   *string                 `json:"customerName,omitempty"`
	Status         *domain.WorkOrderStatus `json:"status,omitempty" binding:"omitempty,oneof=TODO PENDING IN_PROGRESS COMPLETED"`
	ScheduledDate  *time.Time              `json:"scheduledDate,omitempty"`
	EstimatedHours *decimal.Decimal        `json:"estimatedHours,omitempty"`
	HoursSpent     *decimal.Decimal        `json:"hoursSpent,omitempty"`
	EstimatedCost  *decimal.Decimal        `json:"estimatedCost,omitempty"`
	Materials      *[]MaterialInput        `json:"materials,omitempty"`

	// SkipInvoice opts out of invoice auto-creation when this patch completes
	// the order.
	SkipInvoice bool `json:"skipInvoice,omitempty"`
}

// ReopenWorkOrderRequest carries the mandatory reason for reopening a
// completed order.
type ReopenWorkOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ArchiveWorkOrderRequest carries the optional archive reason. Required when
// the order has no linked invoice.
type ArchiveWorkOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}
