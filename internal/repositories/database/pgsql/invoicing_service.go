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

// PgxInvoicingService is the adapter behind the engine's invoicing port. It
// creates a draft invoice from the post-completion snapshot of a work order;
// the invoicing module owns pricing, document generation and the rest of the
// invoice lifecycle.
type PgxInvoicingService struct {
	BaseRepository
}

// NewPgxInvoicingService creates the invoicing adapter.
func NewPgxInvoicingService(pool *pgxpool.Pool) portssvc.InvoicingSvcFacade {
	return &PgxInvoicingService{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoicingService implements portssvc.InvoicingSvcFacade
var _ portssvc.InvoicingSvcFacade = (*PgxInvoicingService)(nil)

// ConvertWorkOrderToInvoice inserts a draft invoice referencing the order and
// returns its reference.
func (s *PgxInvoicingService) ConvertWorkOrderToInvoice(ctx context.Context, order domain.WorkOrder) (*domain.InvoiceRef, error) {
	invoiceID := uuid.NewString()
	var invoiceNumber int64
	if err := s.Pool.QueryRow(ctx, `SELECT nextval('invoice_number_seq');`).Scan(&invoiceNumber); err != nil {
		return nil, apperrors.NewAppError(500, "failed to allocate invoice number", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_id, invoice_number, work_order_id, customer_id, customer_name,
			total, status, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, 'DRAFT', $7, $8);
	`
	_, err := s.Pool.Exec(ctx, query,
		invoiceID, invoiceNumber, order.WorkOrderID, order.CustomerID, order.CustomerName,
		order.EstimatedCost, time.Now().UTC(), order.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to create invoice for work order "+order.WorkOrderID, err)
	}
	return &domain.InvoiceRef{InvoiceID: invoiceID, InvoiceNumber: invoiceNumber}, nil
}
