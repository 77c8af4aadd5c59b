package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/workorder_backend/internal/core/ports/repositories"
)

// WorkOrderRepository is an in-memory implementation of the work order store.
// Used by tests and demo mode; callers never depend on the storage technology
// behind the facade.
type WorkOrderRepository struct {
	mu           sync.RWMutex
	orders       map[string]domain.WorkOrder
	generalSeq   int64
	workOrderSeq int64
}

// NewWorkOrderRepository creates an empty in-memory work order store.
func NewWorkOrderRepository() *WorkOrderRepository {
	return &WorkOrderRepository{orders: make(map[string]domain.WorkOrder)}
}

// Ensure WorkOrderRepository implements portsrepo.WorkOrderRepositoryFacade
var _ portsrepo.WorkOrderRepositoryFacade = (*WorkOrderRepository)(nil)

// AllocateWorkOrderNumbers hands out the next value of each of the two
// independent sequences.
func (r *WorkOrderRepository) AllocateWorkOrderNumbers(ctx context.Context) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generalSeq++
	r.workOrderSeq++
	return r.generalSeq, r.workOrderSeq, nil
}

// SaveWorkOrder persists a new work order with its initial history/journey.
func (r *WorkOrderRepository) SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.WorkOrderID]; exists {
		return fmt.Errorf("work order %s already exists: %w", order.WorkOrderID, apperrors.ErrValidation)
	}
	r.orders[order.WorkOrderID] = cloneOrder(order)
	return nil
}

// FindWorkOrderByID returns a copy of the stored order.
func (r *WorkOrderRepository) FindWorkOrderByID(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[workOrderID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := cloneOrder(order)
	return &clone, nil
}

// ListWorkOrders returns copies of all stored orders.
func (r *WorkOrderRepository) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := make([]domain.WorkOrder, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, cloneOrder(order))
	}
	return orders, nil
}

// UpdateWorkOrder replaces the stored order. The caller has already appended
// the new history/journey entries to the aggregate, so the extra parameters
// are only relevant for stores that persist them in separate tables.
func (r *WorkOrderRepository) UpdateWorkOrder(ctx context.Context, order domain.WorkOrder, newHistory []domain.HistoryEntry, newJourney []domain.JourneyEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.WorkOrderID]; !ok {
		return apperrors.ErrNotFound
	}
	r.orders[order.WorkOrderID] = cloneOrder(order)
	return nil
}

// DeleteWorkOrder removes the order.
func (r *WorkOrderRepository) DeleteWorkOrder(ctx context.Context, workOrderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[workOrderID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.orders, workOrderID)
	return nil
}

// cloneOrder copies the aggregate including its slices so callers can never
// mutate stored state through a returned pointer.
func cloneOrder(order domain.WorkOrder) domain.WorkOrder {
	clone := order
	clone.Materials = append([]domain.Material(nil), order.Materials...)
	clone.History = append([]domain.HistoryEntry(nil), order.History...)
	clone.Journey = append([]domain.JourneyEntry(nil), order.Journey...)
	return clone
}
