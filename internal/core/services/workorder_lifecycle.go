package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	"github.com/bizsuite/workorder_backend/internal/dto"
	"github.com/bizsuite/workorder_backend/internal/middleware"
)

// UpdateWorkOrder applies a partial patch to a work order. The patch is
// diffed against the current record to decide which history entries to emit,
// in fixed order: status, assignment, materials, hours. A transition into
// COMPLETED runs the completion side effects before the single persisted
// write, so every entry of the operation lands with one lastUpdatedAt.
// Implements portssvc.WorkOrderSvcFacade
func (s *workOrderService) UpdateWorkOrder(ctx context.Context, workOrderID string, req dto.UpdateWorkOrderRequest, actor domain.Actor) (*domain.WorkOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.locks.Lock(workOrderID)
	defer unlock()

	order, err := s.workOrderRepo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find work order for update", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		}
		return nil, fmt.Errorf("failed to find work order %s: %w", workOrderID, err)
	}
	if order.IsArchived {
		return nil, fmt.Errorf("%w: work order %s is archived", apperrors.ErrInvalidState, workOrderID)
	}

	now := time.Now().UTC()
	prevStatus := order.Status
	prevAssignedTo := order.AssignedTo
	prevAssignedToName := order.AssignedToName

	applyDescriptivePatch(order, req)

	var newHistory []domain.HistoryEntry
	var newJourney []domain.JourneyEntry
	var diffs []domain.FieldDiff

	// 1. Status
	statusChanged := req.Status != nil && *req.Status != prevStatus
	completing := statusChanged && *req.Status == domain.StatusCompleted
	if statusChanged {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, *req.Status)
		}
		order.Status = *req.Status
		from, to := prevStatus, order.Status
		entry := newHistoryEntry(now, domain.ActionStatusChanged, actor,
			fmt.Sprintf("Status changed from %s to %s", from, to))
		entry.FromStatus = &from
		entry.ToStatus = &to
		newHistory = append(newHistory, entry)
		diffs = append(diffs, domain.FieldDiff{Field: "status", From: string(from), To: string(to)})

		if completing {
			completed := now
			order.CompletedDate = &completed
		} else if prevStatus == domain.StatusCompleted {
			// Leaving COMPLETED through a plain status edit behaves like a
			// reopen with respect to the completion date.
			order.CompletedDate = nil
		}
	}

	// 2. Assignment. One entry per assignment change, even though assignedTo
	// and assignedToName usually change together.
	if req.AssignedTo != nil {
		var newAssignee *string
		if *req.AssignedTo != "" {
			v := *req.AssignedTo
			newAssignee = &v
		}
		if req.AssignedToName != nil {
			order.AssignedToName = *req.AssignedToName
		} else if newAssignee == nil {
			order.AssignedToName = ""
		}
		if !strPtrEqual(newAssignee, prevAssignedTo) {
			order.AssignedTo = newAssignee
			label := assigneeLabel(newAssignee, order.AssignedToName)
			switch {
			case newAssignee == nil:
				entry := newHistoryEntry(now, domain.ActionReassigned, actor,
					fmt.Sprintf("Unassigned from %s", assigneeLabel(prevAssignedTo, prevAssignedToName)))
				entry.FromAssignedTo = prevAssignedTo
				newHistory = append(newHistory, entry)
			case prevAssignedTo == nil:
				entry := newHistoryEntry(now, domain.ActionAssigned, actor,
					fmt.Sprintf("Assigned to %s", label))
				entry.ToAssignedTo = newAssignee
				newHistory = append(newHistory, entry)
				newJourney = append(newJourney, newJourneyEntry(now, domain.StageInProgress, actor,
					"Assigned", fmt.Sprintf("Work assigned to %s", label)))
			default:
				entry := newHistoryEntry(now, domain.ActionReassigned, actor,
					fmt.Sprintf("Reassigned from %s to %s", assigneeLabel(prevAssignedTo, prevAssignedToName), label))
				entry.FromAssignedTo = prevAssignedTo
				entry.ToAssignedTo = newAssignee
				newHistory = append(newHistory, entry)
				newJourney = append(newJourney, newJourneyEntry(now, domain.StageInProgress, actor,
					"Reassigned", fmt.Sprintf("Work reassigned to %s", label)))
			}
			diffs = append(diffs, domain.FieldDiff{
				Field: "assignedTo",
				From:  strPtrValue(prevAssignedTo),
				To:    strPtrValue(newAssignee),
			})
		}
	}

	// 3. Materials
	if req.Materials != nil {
		materials := toDomainMaterials(*req.Materials)
		if !materialsEqual(order.Materials, materials) {
			prevCount := len(order.Materials)
			order.Materials = materials
			entry := newHistoryEntry(now, domain.ActionMaterialUpdated, actor,
				fmt.Sprintf("Materials updated (%d lines, was %d)", len(materials), prevCount))
			newHistory = append(newHistory, entry)
			diffs = append(diffs, domain.FieldDiff{
				Field: "materials",
				From:  fmt.Sprintf("%d lines", prevCount),
				To:    fmt.Sprintf("%d lines", len(materials)),
			})
		}
	}

	// 4. Hours
	if req.HoursSpent != nil && !req.HoursSpent.Equal(order.HoursSpent) {
		prevHours := order.HoursSpent
		order.HoursSpent = *req.HoursSpent
		entry := newHistoryEntry(now, domain.ActionHoursUpdated, actor,
			fmt.Sprintf("Hours spent changed from %s to %s", prevHours, order.HoursSpent))
		entry.Metadata = map[string]any{
			"previousHours": prevHours.String(),
			"newHours":      order.HoursSpent.String(),
		}
		newHistory = append(newHistory, entry)
		diffs = append(diffs, domain.FieldDiff{Field: "hoursSpent", From: prevHours.String(), To: order.HoursSpent.String()})
	}

	// Every successful update yields at least one history entry.
	if len(newHistory) == 0 {
		newHistory = append(newHistory, newHistoryEntry(now, domain.ActionUpdated, actor, "Work order updated"))
	}

	if completing {
		s.runCompletionSideEffects(ctx, order, req.SkipInvoice, actor, now, &newHistory)
		newJourney = append(newJourney, newJourneyEntry(now, domain.StageCompleted, actor,
			"Completed", fmt.Sprintf("Work order #%d completed", order.WorkOrderNumber)))
	}

	order.LastUpdatedAt = now
	order.LastUpdatedBy = actor.ID
	order.History = append(order.History, newHistory...)
	order.Journey = append(order.Journey, newJourney...)

	if err := s.workOrderRepo.UpdateWorkOrder(ctx, *order, newHistory, newJourney); err != nil {
		logger.Error("Failed to persist work order update", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		return nil, fmt.Errorf("failed to update work order %s: %w", workOrderID, err)
	}

	s.logActivity(ctx, domain.ActivityEvent{
		EventType:   "work_order.updated",
		EntityKind:  "work_order",
		EntityID:    order.WorkOrderID,
		Action:      string(domain.ActionUpdated),
		Message:     fmt.Sprintf("Work order #%d updated", order.WorkOrderNumber),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorEmail:  actor.Email,
		EntityLabel: order.Title,
		FieldDiffs:  diffs,
		Timestamp:   now,
	})

	logger.Info("Work order updated",
		slog.String("work_order_id", order.WorkOrderID),
		slog.Int("history_entries", len(newHistory)),
		slog.Bool("completed", completing))
	return order, nil
}

// runCompletionSideEffects executes the two best-effort consequences of
// completion: inventory deduction, then invoice auto-creation. Each is
// isolated so a failure never blocks the completion itself or the other
// action; failures surface only as history entries with metadata.error=true.
func (s *workOrderService) runCompletionSideEffects(ctx context.Context, order *domain.WorkOrder, skipInvoice bool, actor domain.Actor, now time.Time, history *[]domain.HistoryEntry) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.deductInventory(ctx, order, actor, now, history)

	if order.InvoiceID != nil || skipInvoice || s.invoicingSvc == nil {
		return
	}
	ref, err := s.invoicingSvc.ConvertWorkOrderToInvoice(ctx, *order)
	if err != nil {
		// The order stays completed without an invoice; the auto-archival
		// sweep will flag it as needing attention.
		logger.Error("Invoice auto-creation failed",
			slog.String("actor_id", actor.ID),
			slog.String("work_order_id", order.WorkOrderID),
			slog.Int64("work_order_number", order.WorkOrderNumber),
			slog.String("error", err.Error()))
		return
	}
	order.InvoiceID = &ref.InvoiceID
	entry := newHistoryEntry(now, domain.ActionCompleted, actor,
		fmt.Sprintf("Invoice %s generated automatically on completion", ref.InvoiceID))
	entry.Metadata = map[string]any{"invoiceID": ref.InvoiceID, "invoiceNumber": ref.InvoiceNumber}
	*history = append(*history, entry)
}

// deductInventory lowers the on-hand quantity of every inventory-linked
// material line, floored at zero. Per-line failures are recorded and skipped.
func (s *workOrderService) deductInventory(ctx context.Context, order *domain.WorkOrder, actor domain.Actor, now time.Time, history *[]domain.HistoryEntry) {
	if s.inventorySvc == nil {
		return
	}
	linked := false
	for _, m := range order.Materials {
		if m.InventoryItemID != nil && *m.InventoryItemID != "" {
			linked = true
			break
		}
	}
	if !linked {
		return
	}

	items, err := s.inventorySvc.GetItems(ctx)
	if err != nil {
		*history = append(*history, sideEffectFailureEntry(now, actor,
			fmt.Sprintf("Inventory deduction skipped: %v", err)))
		return
	}

	for _, m := range order.Materials {
		if m.InventoryItemID == nil || *m.InventoryItemID == "" {
			continue
		}
		item, ok := items[*m.InventoryItemID]
		if !ok {
			*history = append(*history, sideEffectFailureEntry(now, actor,
				fmt.Sprintf("Inventory deduction failed for %s: item %s not found", m.Name, *m.InventoryItemID)))
			continue
		}
		newQuantity := item.Quantity.Sub(m.Quantity)
		if newQuantity.IsNegative() {
			newQuantity = decimal.Zero
		}
		if err := s.inventorySvc.AdjustQuantity(ctx, item.ItemID, newQuantity); err != nil {
			*history = append(*history, sideEffectFailureEntry(now, actor,
				fmt.Sprintf("Inventory deduction failed for %s: %v", m.Name, err)))
			continue
		}
		deducted := item.Quantity.Sub(newQuantity)
		entry := newHistoryEntry(now, domain.ActionMaterialUpdated, actor,
			fmt.Sprintf("Deducted %s %s of %s from inventory", deducted, m.Unit, item.Name))
		entry.Metadata = map[string]any{
			"inventoryItemID":  item.ItemID,
			"deducted":         deducted.String(),
			"previousQuantity": item.Quantity.String(),
			"newQuantity":      newQuantity.String(),
		}
		*history = append(*history, entry)
	}
}

// ReopenWorkOrder returns a completed order to the status it held before
// completion, derived from history. It does not un-deduct inventory or touch
// any invoice already created; that reconciliation is a human follow-up.
// Implements portssvc.WorkOrderSvcFacade
func (s *workOrderService) ReopenWorkOrder(ctx context.Context, workOrderID string, reason string, actor domain.Actor) (*domain.WorkOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.locks.Lock(workOrderID)
	defer unlock()

	order, err := s.workOrderRepo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find work order %s: %w", workOrderID, err)
	}
	if order.IsArchived {
		return nil, fmt.Errorf("%w: archived work order %s cannot be reopened", apperrors.ErrInvalidState, workOrderID)
	}
	if order.Status != domain.StatusCompleted {
		return nil, fmt.Errorf("%w: only completed work orders can be reopened (current status %s)", apperrors.ErrInvalidState, order.Status)
	}

	now := time.Now().UTC()
	previous := order.StatusBeforeCompletion()
	from, to := domain.StatusCompleted, previous
	order.Status = previous
	order.CompletedDate = nil
	order.LastUpdatedAt = now
	order.LastUpdatedBy = actor.ID

	entry := newHistoryEntry(now, domain.ActionStatusChanged, actor,
		fmt.Sprintf("Reopened: %s", reason))
	entry.FromStatus = &from
	entry.ToStatus = &to
	entry.Metadata = map[string]any{"reason": reason}
	if order.InvoiceID != nil {
		entry.Metadata["invoiceStatus"] = "requires manual review"
		logger.Warn("Reopening work order that already has an invoice; invoice reconciliation is a manual follow-up",
			slog.String("work_order_id", order.WorkOrderID),
			slog.String("invoice_id", *order.InvoiceID))
	}
	journey := newJourneyEntry(now, domain.StageInProgress, actor, "Reopened", reason)

	order.History = append(order.History, entry)
	order.Journey = append(order.Journey, journey)

	if err := s.workOrderRepo.UpdateWorkOrder(ctx, *order, []domain.HistoryEntry{entry}, []domain.JourneyEntry{journey}); err != nil {
		logger.Error("Failed to persist reopen", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		return nil, fmt.Errorf("failed to reopen work order %s: %w", workOrderID, err)
	}

	s.logActivity(ctx, domain.ActivityEvent{
		EventType:   "work_order.reopened",
		EntityKind:  "work_order",
		EntityID:    order.WorkOrderID,
		Action:      string(domain.ActionStatusChanged),
		Message:     fmt.Sprintf("Work order #%d reopened", order.WorkOrderNumber),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorEmail:  actor.Email,
		EntityLabel: order.Title,
		Metadata:    map[string]any{"reason": reason},
		Timestamp:   now,
	})

	logger.Info("Work order reopened",
		slog.String("work_order_id", order.WorkOrderID),
		slog.String("restored_status", string(previous)))
	return order, nil
}

// ArchiveWorkOrder flags a completed order as closed out after snapshotting
// it to the archive sink. Requires either a linked invoice or an explicit
// non-empty reason.
// Implements portssvc.WorkOrderSvcFacade
func (s *workOrderService) ArchiveWorkOrder(ctx context.Context, workOrderID string, reason string, actor domain.Actor) (*domain.WorkOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.locks.Lock(workOrderID)
	defer unlock()

	order, err := s.workOrderRepo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find work order %s: %w", workOrderID, err)
	}
	if order.IsArchived {
		return nil, fmt.Errorf("%w: work order %s is already archived", apperrors.ErrConflict, workOrderID)
	}
	if order.Status != domain.StatusCompleted {
		return nil, fmt.Errorf("%w: only completed work orders can be archived (current status %s)", apperrors.ErrInvalidState, order.Status)
	}
	if order.InvoiceID == nil && reason == "" {
		return nil, fmt.Errorf("%w: archiving requires a linked invoice or an archive reason", apperrors.ErrPrecondition)
	}

	now := time.Now().UTC()
	if err := s.snapshotToArchive(ctx, order, actor, reason); err != nil {
		logger.Error("Failed to snapshot work order to archive", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		return nil, fmt.Errorf("failed to archive work order %s: %w", workOrderID, err)
	}

	order.IsArchived = true
	order.ArchivedAt = &now
	order.ArchivedBy = actor.ID
	order.ArchiveReason = reason
	order.LastUpdatedAt = now
	order.LastUpdatedBy = actor.ID

	details := "Archived"
	if reason != "" {
		details = fmt.Sprintf("Archived: %s", reason)
	} else if order.InvoiceID != nil {
		details = fmt.Sprintf("Archived with invoice %s on file", *order.InvoiceID)
	}
	entry := newHistoryEntry(now, domain.ActionArchived, actor, details)
	if reason != "" {
		entry.Metadata = map[string]any{"reason": reason}
	}
	journey := newJourneyEntry(now, domain.StageCompleted, actor, "Archived", details)

	order.History = append(order.History, entry)
	order.Journey = append(order.Journey, journey)

	if err := s.workOrderRepo.UpdateWorkOrder(ctx, *order, []domain.HistoryEntry{entry}, []domain.JourneyEntry{journey}); err != nil {
		logger.Error("Failed to persist archive", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		return nil, fmt.Errorf("failed to archive work order %s: %w", workOrderID, err)
	}

	s.logActivity(ctx, domain.ActivityEvent{
		EventType:   "work_order.archived",
		EntityKind:  "work_order",
		EntityID:    order.WorkOrderID,
		Action:      string(domain.ActionArchived),
		Message:     fmt.Sprintf("Work order #%d archived", order.WorkOrderNumber),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorEmail:  actor.Email,
		EntityLabel: order.Title,
		Timestamp:   now,
	})

	logger.Info("Work order archived", slog.String("work_order_id", order.WorkOrderID))
	return order, nil
}

// DeleteWorkOrder snapshots the order to the archive sink, then removes it
// from the store. Irreversible from the engine's point of view.
// Implements portssvc.WorkOrderSvcFacade
func (s *workOrderService) DeleteWorkOrder(ctx context.Context, workOrderID string, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.locks.Lock(workOrderID)
	defer unlock()

	order, err := s.workOrderRepo.FindWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return fmt.Errorf("failed to find work order %s: %w", workOrderID, err)
	}

	if err := s.snapshotToArchive(ctx, order, actor, "deleted"); err != nil {
		logger.Error("Failed to snapshot work order before delete", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		return fmt.Errorf("failed to snapshot work order %s before delete: %w", workOrderID, err)
	}

	if err := s.workOrderRepo.DeleteWorkOrder(ctx, workOrderID); err != nil {
		logger.Error("Failed to delete work order", slog.String("error", err.Error()), slog.String("work_order_id", workOrderID))
		return fmt.Errorf("failed to delete work order %s: %w", workOrderID, err)
	}

	s.logActivity(ctx, domain.ActivityEvent{
		EventType:   "work_order.deleted",
		EntityKind:  "work_order",
		EntityID:    order.WorkOrderID,
		Action:      string(domain.ActionDeleted),
		Message:     fmt.Sprintf("Work order #%d deleted", order.WorkOrderNumber),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorEmail:  actor.Email,
		EntityLabel: order.Title,
		Timestamp:   time.Now().UTC(),
	})

	logger.Info("Work order deleted", slog.String("work_order_id", workOrderID))
	return nil
}

// snapshotToArchive sends the full order, its journey and its external
// activity trail to the archive sink. Activity retrieval is best effort; the
// snapshot itself is not.
func (s *workOrderService) snapshotToArchive(ctx context.Context, order *domain.WorkOrder, actor domain.Actor, reason string) error {
	if s.archiveSink == nil {
		return nil
	}
	var activities []domain.ActivityEvent
	if s.activitySvc != nil {
		recorded, err := s.activitySvc.ListActivities(ctx, "work_order", order.WorkOrderID)
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to collect activities for archive snapshot",
				slog.String("work_order_id", order.WorkOrderID),
				slog.String("error", err.Error()))
		} else {
			activities = recorded
		}
	}
	return s.archiveSink.ArchiveDocument(ctx, domain.ArchivedWorkOrder{
		Kind:            "work_order",
		Order:           *order,
		GeneralNumber:   order.GeneralNumber,
		WorkOrderNumber: order.WorkOrderNumber,
		Journey:         order.Journey,
		Activities:      activities,
		ArchivedBy:      actor.ID,
		ArchivedByName:  actor.Name,
		Reason:          reason,
	})
}

func sideEffectFailureEntry(now time.Time, actor domain.Actor, details string) domain.HistoryEntry {
	entry := newHistoryEntry(now, domain.ActionUpdated, actor, details)
	entry.Metadata = map[string]any{"error": true}
	return entry
}

// applyDescriptivePatch applies the fields that do not generate their own
// history entries.
func applyDescriptivePatch(order *domain.WorkOrder, req dto.UpdateWorkOrderRequest) {
	if req.Title != nil {
		order.Title = *req.Title
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Location != nil {
		order.Location = *req.Location
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.PendingReason != nil {
		order.PendingReason = *req.PendingReason
	}
	if req.CustomerID != nil {
		if *req.CustomerID == "" {
			order.CustomerID = nil
		} else {
			v := *req.CustomerID
			order.CustomerID = &v
		}
	}
	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.ScheduledDate != nil {
		order.ScheduledDate = req.ScheduledDate
	}
	if req.EstimatedHours != nil {
		order.EstimatedHours = *req.EstimatedHours
	}
	if req.EstimatedCost != nil {
		order.EstimatedCost = *req.EstimatedCost
	}
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func materialsEqual(a, b []domain.Material) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Unit != b[i].Unit ||
			!a[i].Quantity.Equal(b[i].Quantity) ||
			!strPtrEqual(a[i].InventoryItemID, b[i].InventoryItemID) {
			return false
		}
	}
	return true
}
