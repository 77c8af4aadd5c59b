package pgsql

import (
	"context"
	"errors"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/workorder_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxWorkOrderRepository persists work orders, their append-only history and
// their journey in PostgreSQL. History and journey rows are insert-only; no
// statement in this file updates or deletes them except the cascading order
// delete.
type PgxWorkOrderRepository struct {
	BaseRepository
}

// NewPgxWorkOrderRepository creates a new repository for work order data.
func NewPgxWorkOrderRepository(pool *pgxpool.Pool) portsrepo.WorkOrderRepositoryWithTx {
	return &PgxWorkOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxWorkOrderRepository implements portsrepo.WorkOrderRepositoryWithTx
var _ portsrepo.WorkOrderRepositoryWithTx = (*PgxWorkOrderRepository)(nil)

const workOrderColumns = `
	work_order_id, general_number, work_order_number, title, description,
	location, notes, pending_reason, assigned_to, assigned_to_name,
	customer_id, customer_name, quote_id, invoice_id, status, is_archived,
	scheduled_date, completed_date, archived_at, archived_by, archive_reason,
	estimated_hours, hours_spent, estimated_cost, materials,
	created_at, created_by, created_by_name, last_updated_at, last_updated_by`

// AllocateWorkOrderNumbers draws the next value from each of the two
// independent sequences. Sequence values are never reused, even when the
// surrounding creation fails afterwards; gaps are acceptable.
func (r *PgxWorkOrderRepository) AllocateWorkOrderNumbers(ctx context.Context) (int64, int64, error) {
	var general, number int64
	err := r.Pool.QueryRow(ctx,
		`SELECT nextval('work_order_general_seq'), nextval('work_order_number_seq');`,
	).Scan(&general, &number)
	if err != nil {
		return 0, 0, apperrors.NewAppError(500, "failed to allocate work order numbers", err)
	}
	return general, number, nil
}

// SaveWorkOrder inserts the order row and its initial history/journey entries
// within one database transaction.
func (r *PgxWorkOrderRepository) SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insertQuery := `
		INSERT INTO work_orders (` + workOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30);
	`
	_, err = tx.Exec(ctx, insertQuery,
		order.WorkOrderID, order.GeneralNumber, order.WorkOrderNumber, order.Title, order.Description,
		order.Location, order.Notes, order.PendingReason, order.AssignedTo, order.AssignedToName,
		order.CustomerID, order.CustomerName, order.QuoteID, order.InvoiceID, order.Status, order.IsArchived,
		order.ScheduledDate, order.CompletedDate, order.ArchivedAt, order.ArchivedBy, order.ArchiveReason,
		order.EstimatedHours, order.HoursSpent, order.EstimatedCost, order.Materials,
		order.CreatedAt, order.CreatedBy, order.CreatedByName, order.LastUpdatedAt, order.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert work order "+order.WorkOrderID, err)
	}

	if err := appendEntries(ctx, tx, order.WorkOrderID, order.History, order.Journey); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateWorkOrder updates the order row and appends the new history/journey
// entries in one transaction, so every entry of an engine operation lands
// atomically with the order state it describes.
func (r *PgxWorkOrderRepository) UpdateWorkOrder(ctx context.Context, order domain.WorkOrder, newHistory []domain.HistoryEntry, newJourney []domain.JourneyEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE work_orders SET
			title = $2, description = $3, location = $4, notes = $5, pending_reason = $6,
			assigned_to = $7, assigned_to_name = $8, customer_id = $9, customer_name = $10,
			quote_id = $11, invoice_id = $12, status = $13, is_archived = $14,
			scheduled_date = $15, completed_date = $16, archived_at = $17, archived_by = $18,
			archive_reason = $19, estimated_hours = $20, hours_spent = $21, estimated_cost = $22,
			materials = $23, last_updated_at = $24, last_updated_by = $25
		WHERE work_order_id = $1;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		order.WorkOrderID,
		order.Title, order.Description, order.Location, order.Notes, order.PendingReason,
		order.AssignedTo, order.AssignedToName, order.CustomerID, order.CustomerName,
		order.QuoteID, order.InvoiceID, order.Status, order.IsArchived,
		order.ScheduledDate, order.CompletedDate, order.ArchivedAt, order.ArchivedBy,
		order.ArchiveReason, order.EstimatedHours, order.HoursSpent, order.EstimatedCost,
		order.Materials, order.LastUpdatedAt, order.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update work order "+order.WorkOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := appendEntries(ctx, tx, order.WorkOrderID, newHistory, newJourney); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// appendEntries batches the insert-only history and journey rows.
func appendEntries(ctx context.Context, tx pgx.Tx, workOrderID string, history []domain.HistoryEntry, journey []domain.JourneyEntry) error {
	if len(history) == 0 && len(journey) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	historyQuery := `
		INSERT INTO work_order_history (
			history_id, work_order_id, action, performed_by, performed_by_name,
			occurred_at, details, from_status, to_status, from_assigned_to, to_assigned_to, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, e := range history {
		batch.Queue(historyQuery,
			e.HistoryID, workOrderID, e.Action, e.PerformedBy, e.PerformedByName,
			e.Timestamp, e.Details, e.FromStatus, e.ToStatus, e.FromAssignedTo, e.ToAssignedTo, e.Metadata,
		)
	}
	journeyQuery := `
		INSERT INTO work_order_journey (
			journey_id, work_order_id, stage, performed_by, performed_by_name,
			label, details, metadata, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, e := range journey {
		batch.Queue(journeyQuery,
			e.JourneyID, workOrderID, e.Stage, e.PerformedBy, e.PerformedByName,
			e.Label, e.Details, e.Metadata, e.Timestamp,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to append history/journey for work order "+workOrderID, err)
	}
	return nil
}

// FindWorkOrderByID retrieves the full aggregate: order row plus history and
// journey ordered oldest first.
func (r *PgxWorkOrderRepository) FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE work_order_id = $1;`

	var order domain.WorkOrder
	err := r.Pool.QueryRow(ctx, query, workOrderID).Scan(
		&order.WorkOrderID, &order.GeneralNumber, &order.WorkOrderNumber, &order.Title, &order.Description,
		&order.Location, &order.Notes, &order.PendingReason, &order.AssignedTo, &order.AssignedToName,
		&order.CustomerID, &order.CustomerName, &order.QuoteID, &order.InvoiceID, &order.Status, &order.IsArchived,
		&order.ScheduledDate, &order.CompletedDate, &order.ArchivedAt, &order.ArchivedBy, &order.ArchiveReason,
		&order.EstimatedHours, &order.HoursSpent, &order.EstimatedCost, &order.Materials,
		&order.CreatedAt, &order.CreatedBy, &order.CreatedByName, &order.LastUpdatedAt, &order.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find work order "+workOrderID, err)
	}

	history, err := r.findHistory(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	order.History = history

	journey, err := r.findJourney(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	order.Journey = journey

	return &order, nil
}

func (r *PgxWorkOrderRepository) findHistory(ctx context.Context, workOrderID string) ([]domain.HistoryEntry, error) {
	query := `
		SELECT history_id, action, performed_by, performed_by_name, occurred_at,
		       details, from_status, to_status, from_assigned_to, to_assigned_to, metadata
		FROM work_order_history
		WHERE work_order_id = $1
		ORDER BY occurred_at, history_id;
	`
	rows, err := r.Pool.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query history for work order "+workOrderID, err)
	}
	defer rows.Close()

	var history []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(
			&e.HistoryID, &e.Action, &e.PerformedBy, &e.PerformedByName, &e.Timestamp,
			&e.Details, &e.FromStatus, &e.ToStatus, &e.FromAssignedTo, &e.ToAssignedTo, &e.Metadata,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan history row", err)
		}
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read history rows", err)
	}
	return history, nil
}

func (r *PgxWorkOrderRepository) findJourney(ctx context.Context, workOrderID string) ([]domain.JourneyEntry, error) {
	query := `
		SELECT journey_id, stage, performed_by, performed_by_name, label, details, metadata, occurred_at
		FROM work_order_journey
		WHERE work_order_id = $1
		ORDER BY occurred_at, journey_id;
	`
	rows, err := r.Pool.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journey for work order "+workOrderID, err)
	}
	defer rows.Close()

	var journey []domain.JourneyEntry
	for rows.Next() {
		var e domain.JourneyEntry
		if err := rows.Scan(
			&e.JourneyID, &e.Stage, &e.PerformedBy, &e.PerformedByName, &e.Label, &e.Details, &e.Metadata, &e.Timestamp,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journey row", err)
		}
		journey = append(journey, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read journey rows", err)
	}
	return journey, nil
}

// ListWorkOrders returns all order rows without history/journey bodies. The
// auto-archival scan only needs the order columns.
func (r *PgxWorkOrderRepository) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders ORDER BY work_order_number;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list work orders", err)
	}
	defer rows.Close()

	var orders []domain.WorkOrder
	for rows.Next() {
		var order domain.WorkOrder
		if err := rows.Scan(
			&order.WorkOrderID, &order.GeneralNumber, &order.WorkOrderNumber, &order.Title, &order.Description,
			&order.Location, &order.Notes, &order.PendingReason, &order.AssignedTo, &order.AssignedToName,
			&order.CustomerID, &order.CustomerName, &order.QuoteID, &order.InvoiceID, &order.Status, &order.IsArchived,
			&order.ScheduledDate, &order.CompletedDate, &order.ArchivedAt, &order.ArchivedBy, &order.ArchiveReason,
			&order.EstimatedHours, &order.HoursSpent, &order.EstimatedCost, &order.Materials,
			&order.CreatedAt, &order.CreatedBy, &order.CreatedByName, &order.LastUpdatedAt, &order.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan work order row", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read work order rows", err)
	}
	return orders, nil
}

// DeleteWorkOrder removes the order row; history and journey rows go with it
// via ON DELETE CASCADE.
func (r *PgxWorkOrderRepository) DeleteWorkOrder(ctx context.Context, workOrderID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM work_orders WHERE work_order_id = $1;`, workOrderID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete work order "+workOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
