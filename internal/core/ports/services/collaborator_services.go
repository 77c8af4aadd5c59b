package services

import (
	"context"

	"github.com/bizsuite/workorder_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventorySvcFacade is the engine's port to the inventory module. The engine
// only ever reads items and lowers on-hand quantities during completion.
type InventorySvcFacade interface {
	// GetItems returns the current stock items keyed by their IDs.
	GetItems(ctx context.Context) (map[string]domain.InventoryItem, error)

	// AdjustQuantity sets the on-hand quantity of an item.
	AdjustQuantity(ctx context.Context, itemID string, quantity decimal.Decimal) error
}

// InvoicingSvcFacade is the engine's port to the invoicing module.
type InvoicingSvcFacade interface {
	// ConvertWorkOrderToInvoice creates an invoice from the post-completion
	// snapshot of the order and returns its reference.
	ConvertWorkOrderToInvoice(ctx context.Context, order domain.WorkOrder) (*domain.InvoiceRef, error)
}

// ArchiveSinkSvcFacade receives immutable snapshots of orders being archived
// or deleted.
type ArchiveSinkSvcFacade interface {
	ArchiveDocument(ctx context.Context, snapshot domain.ArchivedWorkOrder) error
}

// ActivityLogSvcFacade receives one event per mutating engine operation.
// Best effort: the engine logs and swallows failures.
type ActivityLogSvcFacade interface {
	LogActivity(ctx context.Context, event domain.ActivityEvent) error

	// ListActivities returns the recorded events for one entity, oldest
	// first. Used to make archive snapshots self-contained.
	ListActivities(ctx context.Context, entityKind, entityID string) ([]domain.ActivityEvent, error)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	WorkOrder   WorkOrderSvcFacade
	AutoArchive AutoArchiveSvcFacade
}
