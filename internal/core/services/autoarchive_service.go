package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/workorder_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/bizsuite/workorder_backend/internal/dto"
	"github.com/bizsuite/workorder_backend/internal/middleware"
)

// DefaultArchiveThreshold is how long a completed order may sit unarchived
// before the sweep picks it up.
const DefaultArchiveThreshold = 48 * time.Hour

// autoArchiveService periodically sweeps completed-but-unarchived orders past
// the age threshold: those with an invoice are archived as the system actor,
// the rest are flagged as needing an invoice.
type autoArchiveService struct {
	workOrderRepo portsrepo.WorkOrderRepositoryFacade
	workOrderSvc  portssvc.WorkOrderSvcFacade
	threshold     time.Duration
}

// NewAutoArchiveService creates the auto-archival scheduler service. A
// non-positive threshold falls back to DefaultArchiveThreshold.
func NewAutoArchiveService(workOrderRepo portsrepo.WorkOrderRepositoryFacade, workOrderSvc portssvc.WorkOrderSvcFacade, threshold time.Duration) portssvc.AutoArchiveSvcFacade {
	if threshold <= 0 {
		threshold = DefaultArchiveThreshold
	}
	return &autoArchiveService{
		workOrderRepo: workOrderRepo,
		workOrderSvc:  workOrderSvc,
		threshold:     threshold,
	}
}

// Ensure autoArchiveService implements the portssvc.AutoArchiveSvcFacade interface
var _ portssvc.AutoArchiveSvcFacade = (*autoArchiveService)(nil)

// RunAutoArchive executes one sweep. Idempotent with respect to order state:
// re-scanning an already-archived order is a no-op because the partition
// predicate excludes it. Notifications are re-emitted each run; callers that
// fan them out must de-duplicate by order ID and run timestamp.
// Implements portssvc.AutoArchiveSvcFacade
func (s *autoArchiveService) RunAutoArchive(ctx context.Context) (*dto.AutoArchiveResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	orders, err := s.workOrderRepo.ListWorkOrders(ctx)
	if err != nil {
		logger.Error("Auto-archive scan failed to list work orders", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list work orders for auto-archive: %w", err)
	}

	now := time.Now().UTC()
	cutoff := now.Add(-s.threshold)
	result := &dto.AutoArchiveResult{RanAt: now}

	for i := range orders {
		order := &orders[i]
		if order.Status != domain.StatusCompleted || order.IsArchived {
			continue
		}
		if order.CompletedDate == nil || !order.CompletedDate.Before(cutoff) {
			continue
		}

		if order.InvoiceID == nil {
			result.NeedsInvoice = append(result.NeedsInvoice, order.WorkOrderID)
			result.Notifications = append(result.Notifications, dto.Notification{
				Type:    dto.NotificationWarning,
				Title:   "Work order needs an invoice",
				Message: fmt.Sprintf("Work order #%d has been completed for over %s but has no invoice and cannot be archived", order.WorkOrderNumber, s.threshold),
				Link:    fmt.Sprintf("/work-orders/%s", order.WorkOrderID),
			})
			continue
		}

		// Archive re-validates eligibility under the per-order lock, so a
		// manual archive or delete racing this sweep turns into a skip here
		// rather than an error.
		_, err := s.workOrderSvc.ArchiveWorkOrder(ctx, order.WorkOrderID, "", domain.SystemActor)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrInvalidState) || errors.Is(err, apperrors.ErrNotFound) {
				logger.Debug("Auto-archive skipped work order after re-validation",
					slog.String("work_order_id", order.WorkOrderID),
					slog.String("reason", err.Error()))
				continue
			}
			logger.Error("Auto-archive failed for work order",
				slog.String("work_order_id", order.WorkOrderID),
				slog.String("error", err.Error()))
			continue
		}

		result.AutoArchived = append(result.AutoArchived, order.WorkOrderID)
		result.Notifications = append(result.Notifications, dto.Notification{
			Type:    dto.NotificationSuccess,
			Title:   "Work order archived",
			Message: fmt.Sprintf("Work order #%d was archived automatically %s after completion", order.WorkOrderNumber, s.threshold),
			Link:    fmt.Sprintf("/work-orders/%s", order.WorkOrderID),
		})
	}

	logger.Info("Auto-archive sweep finished",
		slog.Int("auto_archived", len(result.AutoArchived)),
		slog.Int("needs_invoice", len(result.NeedsInvoice)))
	return result, nil
}

// StartAutoArchiver runs the sweep on a fixed interval until the context is
// cancelled. Launched from main as a background goroutine.
func StartAutoArchiver(ctx context.Context, svc portssvc.AutoArchiveSvcFacade, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Auto-archiver stopped")
			return
		case <-ticker.C:
			if _, err := svc.RunAutoArchive(ctx); err != nil {
				logger.Error("Auto-archive run failed", slog.String("error", err.Error()))
			}
		}
	}
}
