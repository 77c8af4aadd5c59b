package services

import (
	"context"

	"github.com/bizsuite/workorder_backend/internal/core/domain"
	"github.com/bizsuite/workorder_backend/internal/dto"
)

// WorkOrderReaderSvc defines read operations for work orders.
type WorkOrderReaderSvc interface {
	// GetWorkOrder retrieves a work order with full history and journey.
	GetWorkOrder(ctx context.Context, workOrderID string) (*domain.WorkOrder, error)

	// ListWorkOrders retrieves all work orders.
	ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error)
}

// WorkOrderWriterSvc defines the lifecycle transitions of a work order. All
// mutating operations are linearized per work order ID.
type WorkOrderWriterSvc interface {
	// CreateWorkOrder allocates the sequence numbers and persists a new order
	// with its initial history and journey entries.
	CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, actor domain.Actor) (*domain.WorkOrder, error)

	// UpdateWorkOrder applies a patch, emitting one history entry per tracked
	// change (status, assignment, materials, hours — in that order) and at
	// least a generic updated entry otherwise. Transitioning into COMPLETED
	// runs the completion side effects before the single persisted write.
	UpdateWorkOrder(ctx context.Context, workOrderID string, req dto.UpdateWorkOrderRequest, actor domain.Actor) (*domain.WorkOrder, error)

	// ReopenWorkOrder returns a completed order to its pre-completion status.
	ReopenWorkOrder(ctx context.Context, workOrderID string, reason string, actor domain.Actor) (*domain.WorkOrder, error)

	// ArchiveWorkOrder flags a completed order as closed out. Requires a
	// linked invoice or a non-empty reason.
	ArchiveWorkOrder(ctx context.Context, workOrderID string, reason string, actor domain.Actor) (*domain.WorkOrder, error)

	// DeleteWorkOrder snapshots the order to the archive sink and removes it.
	DeleteWorkOrder(ctx context.Context, workOrderID string, actor domain.Actor) error
}

// WorkOrderSvcFacade combines all work-order service interfaces.
type WorkOrderSvcFacade interface {
	WorkOrderReaderSvc
	WorkOrderWriterSvc
}

// AutoArchiveSvcFacade is the scheduler entry point for the periodic sweep of
// stale completed orders.
type AutoArchiveSvcFacade interface {
	// RunAutoArchive scans completed, unarchived orders whose completedDate is
	// older than the threshold and either archives them (invoice present) or
	// flags them as needing an invoice. Safe to run repeatedly; notification
	// de-duplication is the caller's responsibility.
	RunAutoArchive(ctx context.Context) (*dto.AutoArchiveResult, error)
}
