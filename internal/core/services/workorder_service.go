package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/workorder_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/bizsuite/workorder_backend/internal/dto"
	"github.com/bizsuite/workorder_backend/internal/middleware"
	"github.com/bizsuite/workorder_backend/internal/utils"
)

// workOrderService is the lifecycle engine: it validates and applies
// status/assignment transitions, decides which side effects to trigger, and
// writes the history log and customer journey.
type workOrderService struct {
	workOrderRepo portsrepo.WorkOrderRepositoryFacade
	inventorySvc  portssvc.InventorySvcFacade
	invoicingSvc  portssvc.InvoicingSvcFacade
	archiveSink   portssvc.ArchiveSinkSvcFacade
	activitySvc   portssvc.ActivityLogSvcFacade
	locks         *keyedMutex
}

// NewWorkOrderService creates a new work order lifecycle service. The
// collaborator ports are injected so the engine has no compile-time
// dependency on the inventory/invoicing module internals.
func NewWorkOrderService(
	workOrderRepo portsrepo.WorkOrderRepositoryFacade,
	inventorySvc portssvc.InventorySvcFacade,
	invoicingSvc portssvc.InvoicingSvcFacade,
	archiveSink portssvc.ArchiveSinkSvcFacade,
	activitySvc portssvc.ActivityLogSvcFacade,
) portssvc.WorkOrderSvcFacade {
	return &workOrderService{
		workOrderRepo: workOrderRepo,
		inventorySvc:  inventorySvc,
		invoicingSvc:  invoicingSvc,
		archiveSink:   archiveSink,
		activitySvc:   activitySvc,
		locks:         newKeyedMutex(),
	}
}

// Ensure workOrderService implements the portssvc.WorkOrderSvcFacade interface
var _ portssvc.WorkOrderSvcFacade = (*workOrderService)(nil)

// CreateWorkOrder allocates the two sequence numbers, persists the order and
// seeds its history and journey.
// Implements portssvc.WorkOrderSvcFacade
func (s *workOrderService) CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, actor domain.Actor) (*domain.WorkOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	status := domain.StatusTodo
	if req.Status != nil {
		if !req.Status.IsValid() || *req.Status == domain.StatusCompleted {
			return nil, fmt.Errorf("%w: invalid initial status %q", apperrors.ErrValidation, *req.Status)
		}
		status = *req.Status
	}

	source := req.SourceType
	if source == "" {
		source = domain.SourceManual
	}

	generalNumber, workOrderNumber, err := s.workOrderRepo.AllocateWorkOrderNumbers(ctx)
	if err != nil {
		logger.Error("Failed to allocate work order numbers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to allocate work order numbers: %w", err)
	}

	now := time.Now().UTC()
	order := domain.WorkOrder{
		WorkOrderID:     uuid.NewString(),
		GeneralNumber:   generalNumber,
		WorkOrderNumber: workOrderNumber,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Notes:           req.Notes,
		AssignedTo:      req.AssignedTo,
		AssignedToName:  req.AssignedToName,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		QuoteID:         req.QuoteID,
		InvoiceID:       req.InvoiceID,
		Status:          status,
		ScheduledDate:   req.ScheduledDate,
		EstimatedHours:  req.EstimatedHours,
		EstimatedCost:   req.EstimatedCost,
		Materials:       toDomainMaterials(req.Materials),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ID,
			CreatedByName: actor.Name,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ID,
		},
	}

	if source == domain.SourceQuote || source == domain.SourceInvoice {
		entry := newHistoryEntry(now, domain.ActionConverted, actor,
			fmt.Sprintf("Converted from %s %s", strings.ToLower(string(source)), req.SourceID))
		entry.Metadata = map[string]any{"sourceType": string(source), "sourceID": req.SourceID}
		order.History = append(order.History, entry)
		order.Journey = append(order.Journey, newJourneyEntry(now, domain.StageConverted, actor,
			"Converted", fmt.Sprintf("Created from %s", strings.ToLower(string(source)))))
	} else {
		order.History = append(order.History, newHistoryEntry(now, domain.ActionCreated, actor, "Work order created"))
		order.Journey = append(order.Journey, newJourneyEntry(now, domain.StageCreated, actor, "Created", ""))
	}

	if order.AssignedTo != nil && *order.AssignedTo != "" {
		entry := newHistoryEntry(now, domain.ActionAssigned, actor,
			fmt.Sprintf("Assigned to %s", assigneeLabel(order.AssignedTo, order.AssignedToName)))
		entry.ToAssignedTo = order.AssignedTo
		order.History = append(order.History, entry)
		order.Journey = append(order.Journey, newJourneyEntry(now, domain.StageInProgress, actor,
			"Assigned", fmt.Sprintf("Work assigned to %s", assigneeLabel(order.AssignedTo, order.AssignedToName))))
	}

	if err := s.workOrderRepo.SaveWorkOrder(ctx, order); err != nil {
		logger.Error("Failed to save work order", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save work order: %w", err)
	}

	s.logActivity(ctx, domain.ActivityEvent{
		EventType:   "work_order.created",
		EntityKind:  "work_order",
		EntityID:    order.WorkOrderID,
		Action:      string(domain.ActionCreated),
		Message:     fmt.Sprintf("Work order #%d created", order.WorkOrderNumber),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorEmail:  actor.Email,
		EntityLabel: order.Title,
		Timestamp:   now,
	})

	logger.Info("Work order created",
		slog.String("work_order_id", order.WorkOrderID),
		slog.Int64("work_order_number", order.WorkOrderNumber),
		slog.String("source", string(source)))
	return &order, nil
}

// GetWorkOrder retrieves a work order with its full history and journey.
// Implements portssvc.WorkOrderSvcFacade
func (s *workOrderService) GetWorkOrder(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.workOrderRepo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find work order", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		}
		return nil, fmt.Errorf("failed to find work order %s: %w", workOrderID, err)
	}
	return order, nil
}

// ListWorkOrders retrieves all work orders.
// Implements portssvc.WorkOrderSvcFacade
func (s *workOrderService) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	orders, err := s.workOrderRepo.ListWorkOrders(ctx)
	if err != nil {
		logger.Error("Failed to list work orders", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	return orders, nil
}

// logActivity forwards the event to the activity log collaborator. Best
// effort: a failing activity sink must never fail the primary operation.
func (s *workOrderService) logActivity(ctx context.Context, event domain.ActivityEvent) {
	if s.activitySvc == nil {
		return
	}
	if err := s.activitySvc.LogActivity(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to log activity",
			slog.String("event_type", event.EventType),
			slog.String("entity_id", event.EntityID),
			slog.String("error", err.Error()))
	}
}

// newHistoryEntry builds an audit entry stamped with the operation time and a
// collision-resistant id.
func newHistoryEntry(now time.Time, action domain.HistoryAction, actor domain.Actor, details string) domain.HistoryEntry {
	return domain.HistoryEntry{
		HistoryID:       utils.NewEntryID(now),
		Action:          action,
		PerformedBy:     actor.ID,
		PerformedByName: actor.Name,
		Timestamp:       now,
		Details:         details,
	}
}

// newJourneyEntry builds a customer-facing journey checkpoint.
func newJourneyEntry(now time.Time, stage domain.JourneyStage, actor domain.Actor, label, details string) domain.JourneyEntry {
	return domain.JourneyEntry{
		JourneyID:       utils.NewEntryID(now),
		Stage:           stage,
		PerformedBy:     actor.ID,
		PerformedByName: actor.Name,
		Label:           label,
		Details:         details,
		Timestamp:       now,
	}
}

func toDomainMaterials(inputs []dto.MaterialInput) []domain.Material {
	materials := make([]domain.Material, len(inputs))
	for i, in := range inputs {
		materials[i] = domain.Material{
			InventoryItemID: in.InventoryItemID,
			Name:            in.Name,
			Quantity:        in.Quantity,
			Unit:            in.Unit,
		}
	}
	return materials
}

// assigneeLabel prefers the display name, falling back to the employee id.
func assigneeLabel(id *string, name string) string {
	if name != "" {
		return name
	}
	if id != nil {
		return *id
	}
	return "nobody"
}
