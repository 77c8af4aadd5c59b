package pgsql

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxArchiveSink stores immutable snapshots of archived and deleted work
// orders as self-contained documents.
type PgxArchiveSink struct {
	BaseRepository
}

// NewPgxArchiveSink creates the archive sink adapter.
func NewPgxArchiveSink(pool *pgxpool.Pool) portssvc.ArchiveSinkSvcFacade {
	return &PgxArchiveSink{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxArchiveSink implements portssvc.ArchiveSinkSvcFacade
var _ portssvc.ArchiveSinkSvcFacade = (*PgxArchiveSink)(nil)

// ArchiveDocument inserts the snapshot. The full aggregate goes into one
// jsonb column; the numbers are lifted out for lookup without unpacking.
func (s *PgxArchiveSink) ArchiveDocument(ctx context.Context, snapshot domain.ArchivedWorkOrder) error {
	query := `
		INSERT INTO archived_documents (
			document_id, kind, general_number, work_order_number,
			snapshot, archived_by, archived_by_name, reason, archived_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := s.Pool.Exec(ctx, query,
		uuid.NewString(), snapshot.Kind, snapshot.GeneralNumber, snapshot.WorkOrderNumber,
		snapshot, snapshot.ArchivedBy, snapshot.ArchivedByName, snapshot.Reason, time.Now().UTC(),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive document for work order "+snapshot.Order.WorkOrderID, err)
	}
	return nil
}
