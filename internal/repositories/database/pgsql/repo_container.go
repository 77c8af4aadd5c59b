package pgsql

import (
	portsrepo "github.com/bizsuite/workorder_backend/internal/core/ports/repositories"
	"github.com/bizsuite/workorder_backend/internal/core/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the repository provider backed by PostgreSQL.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		WorkOrderRepo: NewPgxWorkOrderRepository(pool),
	}
}

// NewCollaboratorProvider builds the collaborator adapters backed by the
// suite's PostgreSQL tables.
func NewCollaboratorProvider(pool *pgxpool.Pool) services.CollaboratorProvider {
	return services.CollaboratorProvider{
		Inventory:   NewPgxInventoryService(pool),
		Invoicing:   NewPgxInvoicingService(pool),
		ArchiveSink: NewPgxArchiveSink(pool),
		ActivityLog: NewPgxActivityLog(pool),
	}
}
