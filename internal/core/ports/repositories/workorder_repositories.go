package repositories

import (
	"context"

	"github.com/bizsuite/workorder_backend/internal/core/domain"
)

// WorkOrderReader defines read operations for work order data.
type WorkOrderReader interface {
	// FindWorkOrderByID retrieves a work order with its full history and
	// journey, ordered oldest first.
	FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error)

	// ListWorkOrders retrieves all work orders without history/journey bodies.
	// The auto-archival scan only needs status, isArchived, completedDate and
	// invoiceID from this view.
	ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error)
}

// WorkOrderWriter defines write operations for work order data. History and
// journey rows are append-only: no method exists to edit or remove them.
type WorkOrderWriter interface {
	// SaveWorkOrder persists a new work order together with its initial
	// history and journey entries atomically.
	SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error

	// UpdateWorkOrder persists the updated order row and appends the given
	// history and journey entries in a single transaction, so every entry
	// produced by one engine operation lands with one lastUpdatedAt.
	UpdateWorkOrder(ctx context.Context, order domain.WorkOrder, newHistory []domain.HistoryEntry, newJourney []domain.JourneyEntry) error

	// DeleteWorkOrder removes the order and its history/journey rows.
	DeleteWorkOrder(ctx context.Context, workOrderID string) error
}

// NumberAllocator hands out the two independent human-facing sequence numbers
// assigned exactly once at creation. Numbers are never reused.
type NumberAllocator interface {
	AllocateWorkOrderNumbers(ctx context.Context) (generalNumber int64, workOrderNumber int64, err error)
}

// WorkOrderRepositoryFacade combines all work-order repository interfaces.
type WorkOrderRepositoryFacade interface {
	WorkOrderReader
	WorkOrderWriter
	NumberAllocator
}

// WorkOrderRepositoryWithTx extends WorkOrderRepositoryFacade with transaction capabilities.
type WorkOrderRepositoryWithTx interface {
	WorkOrderRepositoryFacade
	TransactionManager
}
