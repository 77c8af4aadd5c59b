package services

import (
	"time"

	portsrepo "github.com/bizsuite/workorder_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
)

// CollaboratorProvider holds the external collaborator ports the engine
// consumes. The engine only knows these interfaces, never the modules behind
// them.
type CollaboratorProvider struct {
	Inventory   portssvc.InventorySvcFacade
	Invoicing   portssvc.InvoicingSvcFacade
	ArchiveSink portssvc.ArchiveSinkSvcFacade
	ActivityLog portssvc.ActivityLogSvcFacade
}

// NewServiceContainer builds the service container with all dependencies
// wired. threshold controls the auto-archival age cutoff.
func NewServiceContainer(repos portsrepo.RepositoryProvider, collaborators CollaboratorProvider, threshold time.Duration) *portssvc.ServiceContainer {
	workOrderSvc := NewWorkOrderService(
		repos.WorkOrderRepo,
		collaborators.Inventory,
		collaborators.Invoicing,
		collaborators.ArchiveSink,
		collaborators.ActivityLog,
	)
	return &portssvc.ServiceContainer{
		WorkOrder:   workOrderSvc,
		AutoArchive: NewAutoArchiveService(repos.WorkOrderRepo, workOrderSvc, threshold),
	}
}
