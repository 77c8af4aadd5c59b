package dto

import (
	"time"

	"github.com/bizsuite/workorder_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WorkOrderResponse defines the data returned for a work order.
type WorkOrderResponse struct {
	WorkOrderID     string                 `json:"workOrderID"`
	GeneralNumber   int64                  `json:"generalNumber"`
	WorkOrderNumber int64                  `json:"workOrderNumber"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	Location        string                 `json:"location,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	PendingReason   string                 `json:"pendingReason,omitempty"`
	AssignedTo      *string                `json:"assignedTo,omitempty"`
	AssignedToName  string                 `json:"assignedToName,omitempty"`
	CustomerID      *string                `json:"customerID,omitempty"`
	CustomerName    string                 `json:"customerName,omitempty"`
	QuoteID         *string                `json:"quoteID,omitempty"`
	InvoiceID       *string                `json:"invoiceID,omitempty"`
	Status          domain.WorkOrderStatus `json:"status"`
	IsArchived      bool                   `json:"isArchived"`
	ScheduledDate   *time.Time             `json:"scheduledDate,omitempty"`
	CompletedDate   *time.Time             `json:"completedDate,omitempty"`
	ArchivedAt      *time.Time             `json:"archivedAt,omitempty"`
	ArchivedBy      string                 `json:"archivedBy,omitempty"`
	ArchiveReason   string                 `json:"archiveReason,omitempty"`
	EstimatedHours  decimal.Decimal        `json:"estimatedHours"`
	HoursSpent      decimal.Decimal        `json:"hoursSpent"`
	EstimatedCost   decimal.Decimal        `json:"estimatedCost"`
	Materials       []domain.Material      `json:"materials"`
	History         []domain.HistoryEntry  `json:"history,omitempty"`
	Journey         []domain.JourneyEntry  `json:"journey,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	CreatedByName   string                 `json:"createdByName,omitempty"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
}

// ToWorkOrderResponse converts a domain.WorkOrder to its response DTO.
func ToWorkOrderResponse(w *domain.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		WorkOrderID:     w.WorkOrderID,
		GeneralNumber:   w.GeneralNumber,
		WorkOrderNumber: w.WorkOrderNumber,
		Title:           w.Title,
		Description:     w.Description,
		Location:        w.Location,
		Notes:           w.Notes,
		PendingReason:   w.PendingReason,
		AssignedTo:      w.AssignedTo,
		AssignedToName:  w.AssignedToName,
		CustomerID:      w.CustomerID,
		CustomerName:    w.CustomerName,
		QuoteID:         w.QuoteID,
		InvoiceID:       w.InvoiceID,
		Status:          w.Status,
		IsArchived:      w.IsArchived,
		ScheduledDate:   w.ScheduledDate,
		CompletedDate:   w.CompletedDate,
		ArchivedAt:      w.ArchivedAt,
		ArchivedBy:      w.ArchivedBy,
		ArchiveReason:   w.ArchiveReason,
		EstimatedHours:  w.EstimatedHours,
		HoursSpent:      w.HoursSpent,
		EstimatedCost:   w.EstimatedCost,
		Materials:       w.Materials,
		History:         w.History,
		Journey:         w.Journey,
		CreatedAt:       w.CreatedAt,
		CreatedBy:       w.CreatedBy,
		CreatedByName:   w.CreatedByName,
		LastUpdatedAt:   w.LastUpdatedAt,
	}
}

// ToWorkOrderResponses converts a slice of work orders.
func ToWorkOrderResponses(orders []domain.WorkOrder) []WorkOrderResponse {
	responses := make([]WorkOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToWorkOrderResponse(&orders[i])
	}
	return responses
}

// ListWorkOrdersResponse wraps the list endpoint payload.
type ListWorkOrdersResponse struct {
	WorkOrders []WorkOrderResponse `json:"workOrders"`
}
